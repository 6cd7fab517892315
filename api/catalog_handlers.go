package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CatalogStatusHandler reports the snapshot currently being served.
func (api *API) CatalogStatusHandler(c *gin.Context) {
	c.JSON(http.StatusOK, api.manager.Status())
}

// ReloadCatalogHandler starts an asynchronous catalog rebuild from the
// configured source files.
func (api *API) ReloadCatalogHandler(c *gin.Context) {
	jobID, err := api.manager.ReloadAsync()
	if err != nil {
		SendJobExecutionError(c, "catalog reload", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"message": "Catalog reload started",
		"job_id":  jobID,
	})
}

// PersistSnapshotHandler starts an asynchronous write of the current
// snapshot to disk.
func (api *API) PersistSnapshotHandler(c *gin.Context) {
	jobID, err := api.manager.PersistAsync()
	if err != nil {
		SendJobExecutionError(c, "snapshot persist", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"message": "Snapshot persistence started",
		"job_id":  jobID,
	})
}
