package http

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	tempDir string
	version string
}

func NewHealthController(tempDir, version string) *HealthController {
	return &HealthController{
		tempDir: tempDir,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	// Upload conversions need a writable scratch location
	if err := checkWritable(h.tempDir); err != nil {
		checks["temp_dir"] = "error: " + err.Error()
		status = "unhealthy"
	} else {
		checks["temp_dir"] = "ok"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}

func checkWritable(dir string) error {
	probe, err := os.MkdirTemp(dir, "imgpdf-health-*")
	if err != nil {
		return err
	}
	return os.Remove(probe)
}

// ServiceInfo describes the API on the root endpoint.
type ServiceInfo struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

type InfoController struct {
	info ServiceInfo
}

func NewInfoController(version string) *InfoController {
	return &InfoController{
		info: ServiceInfo{
			Name:    "Image to PDF Converter API",
			Version: version,
			Endpoints: map[string]string{
				"POST /convert":        "Convert images from a directory to PDF",
				"POST /convert/upload": "Upload images and convert to PDF",
				"GET /health":          "Health check endpoint",
			},
		},
	}
}

func (i *InfoController) Info(c *gin.Context) {
	c.JSON(http.StatusOK, i.info)
}
