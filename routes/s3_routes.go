package routes

import (
	"bartr_server/controllers"
	"bartr_server/services"

	"github.com/gorilla/mux"
)

// RegisterS3Routes registers attachment URL routes under `/api/s3`
func RegisterS3Routes(router *mux.Router, s3Service *services.S3Service) {
	controller := &controllers.S3Controller{Service: s3Service}

	s3Router := router.PathPrefix("/s3").Subrouter()
	s3Router.HandleFunc("/upload-url", controller.GeneratePresignedURLHandler).Methods("POST")
	s3Router.HandleFunc("/read-url", controller.GenerateReadURLHandler).Methods("GET")
}
