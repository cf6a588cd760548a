package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// routeDoc is one documented operation. The schema endpoint is generated
// from this table so docs and routes are maintained side by side.
type routeDoc struct {
	Method      string
	Path        string
	Summary     string
	Tag         string
	Auth        string // "", "bearer" or "admin"
	HasBody     bool
	StatusCodes []int
}

var routeDocs = []routeDoc{
	{Method: "POST", Path: "/api/register", Summary: "Register a user and issue a token", Tag: "auth", HasBody: true, StatusCodes: []int{201, 400, 409}},
	{Method: "POST", Path: "/api/login", Summary: "Exchange credentials for a token", Tag: "auth", HasBody: true, StatusCodes: []int{200, 400, 401}},

	{Method: "GET", Path: "/api/customers", Summary: "List customers", Tag: "customers", StatusCodes: []int{200}},
	{Method: "POST", Path: "/api/customers", Summary: "Create a customer", Tag: "customers", Auth: "bearer", HasBody: true, StatusCodes: []int{201, 400, 409}},
	{Method: "GET", Path: "/api/customers/{id}", Summary: "Retrieve a customer", Tag: "customers", StatusCodes: []int{200, 404}},
	{Method: "PUT", Path: "/api/customers/{id}", Summary: "Update a customer", Tag: "customers", Auth: "admin", HasBody: true, StatusCodes: []int{200, 400, 404, 409}},
	{Method: "PATCH", Path: "/api/customers/{id}", Summary: "Partially update a customer", Tag: "customers", Auth: "admin", HasBody: true, StatusCodes: []int{200, 400, 404, 409}},
	{Method: "DELETE", Path: "/api/customers/{id}", Summary: "Delete a customer without pending orders", Tag: "customers", Auth: "admin", StatusCodes: []int{204, 404, 409}},

	{Method: "GET", Path: "/api/products", Summary: "List products", Tag: "products", StatusCodes: []int{200}},
	{Method: "POST", Path: "/api/products", Summary: "Create a product", Tag: "products", Auth: "bearer", HasBody: true, StatusCodes: []int{201, 400}},
	{Method: "GET", Path: "/api/products/{id}", Summary: "Retrieve a product", Tag: "products", StatusCodes: []int{200, 404}},
	{Method: "PUT", Path: "/api/products/{id}", Summary: "Update a product", Tag: "products", Auth: "bearer", HasBody: true, StatusCodes: []int{200, 400, 404}},
	{Method: "PATCH", Path: "/api/products/{id}", Summary: "Partially update a product", Tag: "products", Auth: "bearer", HasBody: true, StatusCodes: []int{200, 400, 404}},
	{Method: "DELETE", Path: "/api/products/{id}", Summary: "Delete a product", Tag: "products", Auth: "bearer", StatusCodes: []int{204, 404}},
	{Method: "PUT", Path: "/api/products/{id}/mark_sold_out", Summary: "Zero the stock and deactivate", Tag: "products", Auth: "bearer", StatusCodes: []int{200, 400, 404}},
	{Method: "POST", Path: "/api/products/{id}/increase_stock", Summary: "Add stock to a product", Tag: "products", Auth: "bearer", HasBody: true, StatusCodes: []int{200, 400, 404}},

	{Method: "GET", Path: "/api/orders", Summary: "List orders with line items", Tag: "orders", Auth: "bearer", StatusCodes: []int{200}},
	{Method: "POST", Path: "/api/orders", Summary: "Create an order, optionally with items", Tag: "orders", Auth: "bearer", HasBody: true, StatusCodes: []int{201, 400, 409}},
	{Method: "GET", Path: "/api/orders/{id}", Summary: "Retrieve an order with line items", Tag: "orders", Auth: "bearer", StatusCodes: []int{200, 404}},
	{Method: "PUT", Path: "/api/orders/{id}", Summary: "Update an order, replacing items when given", Tag: "orders", Auth: "bearer", HasBody: true, StatusCodes: []int{200, 400, 404, 409}},
	{Method: "PATCH", Path: "/api/orders/{id}", Summary: "Partially update an order", Tag: "orders", Auth: "bearer", HasBody: true, StatusCodes: []int{200, 400, 404, 409}},
	{Method: "DELETE", Path: "/api/orders/{id}", Summary: "Delete an order and its items", Tag: "orders", Auth: "bearer", StatusCodes: []int{204, 404}},
	{Method: "POST", Path: "/api/orders/{id}/items", Summary: "Add a line item and recompute the total", Tag: "orders", Auth: "bearer", HasBody: true, StatusCodes: []int{201, 400, 404, 409}},
	{Method: "PATCH", Path: "/api/orders/{id}/items/{itemID}", Summary: "Update a line item and recompute the total", Tag: "orders", Auth: "bearer", HasBody: true, StatusCodes: []int{200, 400, 404}},
	{Method: "DELETE", Path: "/api/orders/{id}/items/{itemID}", Summary: "Remove a line item and recompute the total", Tag: "orders", Auth: "bearer", StatusCodes: []int{204, 404}},

	{Method: "GET", Path: "/api/tasks/greeting", Summary: "Enqueue a greeting job", Tag: "tasks", Auth: "bearer", StatusCodes: []int{202, 503}},
	{Method: "GET", Path: "/api/tasks/export", Summary: "Enqueue the active-customer export job", Tag: "tasks", Auth: "bearer", StatusCodes: []int{202, 503}},

	{Method: "GET", Path: "/healthz", Summary: "Liveness probe with process counters", Tag: "ops", StatusCodes: []int{200}},
}

var statusText = map[int]string{
	200: "OK",
	201: "Created",
	202: "Accepted",
	204: "No Content",
	400: "Bad Request",
	401: "Unauthorized",
	403: "Forbidden",
	404: "Not Found",
	409: "Conflict",
	503: "Service Unavailable",
}

// openAPISchema renders the route table as an OpenAPI 3 document.
func openAPISchema() gin.H {
	paths := gin.H{}
	for _, rd := range routeDocs {
		op := gin.H{
			"summary": rd.Summary,
			"tags":    []string{rd.Tag},
		}

		responses := gin.H{}
		for _, code := range rd.StatusCodes {
			responses[strconv.Itoa(code)] = gin.H{"description": statusText[code]}
		}
		op["responses"] = responses

		if rd.HasBody {
			op["requestBody"] = gin.H{
				"required": true,
				"content": gin.H{
					"application/json": gin.H{"schema": gin.H{"type": "object"}},
				},
			}
		}
		if rd.Auth != "" {
			op["security"] = []gin.H{{"bearerAuth": []string{}}}
			if rd.Auth == "admin" {
				op["description"] = "Requires the ADMIN role."
			}
		}

		entry, ok := paths[rd.Path].(gin.H)
		if !ok {
			entry = gin.H{}
			paths[rd.Path] = entry
		}
		entry[strings.ToLower(rd.Method)] = op
	}

	return gin.H{
		"openapi": "3.0.3",
		"info": gin.H{
			"title":   "Storefront API",
			"version": "1.0.0",
		},
		"paths": paths,
		"components": gin.H{
			"securitySchemes": gin.H{
				"bearerAuth": gin.H{
					"type":         "http",
					"scheme":       "bearer",
					"bearerFormat": "JWT",
				},
			},
		},
	}
}

func Schema(c *gin.Context) {
	c.JSON(http.StatusOK, openAPISchema())
}

const docsPage = `<!DOCTYPE html>
<html>
<head>
  <title>Storefront API docs</title>
  <meta charset="utf-8"/>
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = () => {
      SwaggerUIBundle({ url: "/api/schema", dom_id: "#swagger-ui" });
    };
  </script>
</body>
</html>`

func Docs(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(docsPage))
}
