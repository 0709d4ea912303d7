package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"storefront/internal/auth"
	"storefront/internal/products"
	"storefront/pkg/ctxmanage"
	"storefront/pkg/logkey"
)

func (h *Handler) CreateProduct(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	// Check if the size of the request body exceeds 5 KB
	if c.Request.ContentLength > 5*1024 {
		slog.Error("request body limit breached", slog.String(logkey.TraceID, traceId), slog.Int64("Size Received", c.Request.ContentLength))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Request body too large."})
		return
	}

	var newProduct products.NewProduct
	if err := c.ShouldBindJSON(&newProduct); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	validate := validator.New()
	if err := validate.Struct(newProduct); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			for _, vErr := range vErrs {
				switch vErr.Tag() {
				case "required":
					slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
					c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": vErr.Field() + " value missing"})
					return
				case "min":
					slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
					c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": vErr.Field() + " value is less than " + vErr.Param()})
					return
				default:
					slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
					c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
					return
				}
			}
		}
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	insertedProduct, err := h.products.InsertProduct(c.Request.Context(), newProduct)
	if err != nil {
		if errors.Is(err, products.ErrDuplicateSKU) {
			slog.Error("duplicate sku", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "SKU already exists"})
			return
		}
		slog.Error("error in inserting the product", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Product Creation Failed"})
		return
	}

	c.JSON(http.StatusOK, insertedProduct)
}

// GetProductPage serves the product details page payload. Option
// selections arrive as repeated `options` query parameters in
// name:value form, e.g. ?options=color:Silver&options=storage:256GB.
func (h *Handler) GetProductPage(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	productID := c.Param("id")
	selected, err := parseSelectedOptions(c.QueryArray("options"))
	if err != nil {
		slog.Error("invalid options query", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := h.details.Page(c.Request.Context(), productID, selected)
	if !res.Success {
		if res.Message == "Product not found" {
			c.AbortWithStatusJSON(http.StatusNotFound, res)
			return
		}
		slog.Error("error building product page", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ProductID, productID), slog.String("Message", res.Message))
		c.AbortWithStatusJSON(http.StatusInternalServerError, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ListProducts(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	categoryFilter := c.Query("category")
	featuredOnly := c.Query("featured") == "true"
	limit := c.DefaultQuery("limit", "10")
	offset := c.DefaultQuery("offset", "0")

	limitInt, err := strconv.Atoi(limit)
	if err != nil || limitInt <= 0 {
		slog.Error("invalid limit parameter", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
		return
	}
	offsetInt, err := strconv.Atoi(offset)
	if err != nil || offsetInt < 0 {
		slog.Error("invalid offset parameter", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid offset parameter"})
		return
	}

	list, err := h.products.ListProducts(c.Request.Context(), categoryFilter, featuredOnly, limitInt, offsetInt)
	if err != nil {
		slog.Error("error in fetching products", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": list})
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	productID := c.Param("id")
	err := h.products.DeleteProduct(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, products.ErrNotFound) {
			slog.Error("product not found", slog.String(logkey.TraceID, traceId), slog.String(logkey.ProductID, productID))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		slog.Error("error in deleting the product", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ProductID, productID), slog.String(logkey.ERROR, err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Product deletion failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product successfully deleted"})
}

func (h *Handler) AddReview(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	productID := c.Param("id")

	var newReview products.NewReview
	if err := c.ShouldBindJSON(&newReview); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	validate := validator.New()
	if err := validate.Struct(newReview); err != nil {
		slog.Error("review validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5"})
		return
	}

	review, err := h.products.AddReview(c.Request.Context(), productID, claims.Subject, newReview)
	if err != nil {
		slog.Error("error adding review", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ProductID, productID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to add review"})
		return
	}

	c.JSON(http.StatusOK, review)
}

func (h *Handler) ListReviews(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	productID := c.Param("id")
	reviews, err := h.products.ListReviews(c.Request.Context(), productID)
	if err != nil {
		slog.Error("error fetching reviews", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ProductID, productID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"summary": products.Summarize(reviews),
	})
}

// parseSelectedOptions turns ["color:Silver", "storage:256GB"] into an
// ordered Options selection.
func parseSelectedOptions(raw []string) (products.Options, error) {
	var selected products.Options
	for _, entry := range raw {
		name, value, found := cutOption(entry)
		if !found {
			return nil, errors.New("options must be name:value pairs")
		}
		selected = selected.Set(name, value)
	}
	return selected, nil
}

func cutOption(entry string) (string, string, bool) {
	for i := 0; i < len(entry); i++ {
		if entry[i] == ':' {
			if i == 0 || i == len(entry)-1 {
				return "", "", false
			}
			return entry[:i], entry[i+1:], true
		}
	}
	return "", "", false
}
