package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-api/internal/tasks"
)

type TasksHandler struct {
	queue tasks.Queue
}

func NewTasksHandler(queue tasks.Queue) *TasksHandler {
	return &TasksHandler{queue: queue}
}

// Greeting enqueues a greeting job. The name is taken from the query
// string so the endpoint stays a plain GET.
func (h *TasksHandler) Greeting(c *gin.Context) {
	job := tasks.NewJob(tasks.JobGreeting, map[string]string{
		"name": c.Query("name"),
	})
	h.enqueue(c, job)
}

// Export enqueues the active-customer export job.
func (h *TasksHandler) Export(c *gin.Context) {
	h.enqueue(c, tasks.NewJob(tasks.JobExportActiveCustomers, nil))
}

func (h *TasksHandler) enqueue(c *gin.Context, job tasks.Job) {
	if err := h.queue.Enqueue(c.Request.Context(), job); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "task queue unavailable"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"job_id": job.ID,
		"name":   job.Name,
		"status": "queued",
	})
}
