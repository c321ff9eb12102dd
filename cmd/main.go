package main

import (
	"log"
	"os"

	"github.com/sstent/foodplanner-sub000/config"
	"github.com/sstent/foodplanner-sub000/routes"
	"github.com/sstent/foodplanner-sub000/utils"
)

func main() {
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	utils.InitS3()

	r := routes.SetupRouter(db)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
