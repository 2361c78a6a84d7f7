package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wellnest-app/wellnest-backend/internal/catalog"
)

type CatalogHandler struct {
	catalog *catalog.Catalog
}

func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: cat}
}

func (ch *CatalogHandler) ListMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"metrics": ch.catalog.Metrics()})
}
