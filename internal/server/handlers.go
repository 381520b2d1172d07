package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Skufu/healthrisk/internal/explain"
	"github.com/Skufu/healthrisk/internal/inference"
	"github.com/Skufu/healthrisk/internal/model"
	"github.com/Skufu/healthrisk/internal/patient"
)

// LivenessMessage is returned by GET /.
const LivenessMessage = "Smart Healthcare API is running 🚀"

// PredictionResult is the POST /predict response body.
type PredictionResult struct {
	Diabetes    int      `json:"diabetes"`
	Heart       int      `json:"heart"`
	Kidney      int      `json:"kidney"`
	Explanation []string `json:"explanation"`
}

// Handler serves the prediction API over a store loaded once at startup.
type Handler struct {
	store  *model.Store
	logger *zap.Logger
}

func NewHandler(store *model.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

func (h *Handler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": LivenessMessage})
}

func (h *Handler) Predict(c *gin.Context) {
	var payload patient.PatientData
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeBindError(c, err)
		return
	}

	vitals := payload.Vitals()
	labels, err := inference.PredictAll(c.Request.Context(), h.store, patient.MapFeatures(vitals))
	if err != nil {
		h.logger.Error("inference failed",
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "inference_failed"})
		return
	}

	c.JSON(http.StatusOK, PredictionResult{
		Diabetes:    labels.Diabetes,
		Heart:       labels.Heart,
		Kidney:      labels.Kidney,
		Explanation: explain.Explain(vitals),
	})
}
