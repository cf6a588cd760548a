package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront-api/internal/customer"
	"storefront-api/internal/order"
	"storefront-api/internal/product"
	"storefront-api/internal/user"
)

// respondError maps domain errors onto HTTP status codes. Anything not
// recognized becomes a 500 with a generic body.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, customer.ErrNotFound),
		errors.Is(err, product.ErrNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, order.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, customer.ErrEmailExists),
		errors.Is(err, user.ErrEmailExists),
		errors.Is(err, customer.ErrPendingOrders),
		errors.Is(err, order.ErrDuplicateProduct):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, product.ErrNegativeStock),
		errors.Is(err, product.ErrAlreadySoldOut),
		errors.Is(err, order.ErrInvalidQuantity),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, order.ErrCustomerNotFound),
		errors.Is(err, order.ErrProductNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, user.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// pathID parses a numeric path parameter, writing a 404 on garbage so that
// /api/customers/abc behaves like a missing resource.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
		return 0, false
	}
	return id, true
}
