package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/checkmarble/caregiver-uploads/usecases"
	"github.com/checkmarble/caregiver-uploads/utils"
)

func addRoutes(r *gin.Engine, conf Configuration, uc usecases.Usecases, auth utils.Authentication) {
	r.GET("/liveness", handleLivenessProbe(uc))
	if conf.EnablePrometheus {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	router := r.Use(auth.Middleware)

	uploadLimit := requestSizeLimiter(conf.MaxRequestBytes + multipartOverheadBytes)

	router.POST("/recipients/:recipient_id/files", uploadLimit, handlePostRecipientFile(uc))
	router.POST("/recipients/:recipient_id/redact-upload", uploadLimit, handlePostRedactUpload(uc))
	router.GET("/recipients/:recipient_id/files", handleListRecipientFiles(uc))
	router.GET("/recipients/:recipient_id/files/:file_id", handleGetRecipientFile(uc))
	router.DELETE("/recipients/:recipient_id/files/:file_id", handleDeleteRecipientFile(uc))

	router.GET("/redaction/status", handleGetRedactionStatus(uc))
	router.POST("/redaction/test", handlePostRedactionTest(uc))
	router.POST("/redaction/file", uploadLimit, handlePostRedactionFile(uc))
}
