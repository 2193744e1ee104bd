package main

import (
	"github.com/mubbi/blogapi/config"
	"github.com/mubbi/blogapi/models"
	"github.com/mubbi/blogapi/routes"
	"github.com/mubbi/blogapi/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{}, &models.Role{}, &models.Permission{},
		&models.Article{}, &models.ArticleLike{},
		&models.Category{}, &models.Tag{}, &models.Media{},
		&models.Comment{},
		&models.Notification{}, &models.UserNotification{},
		&models.NewsletterSubscriber{},
		&models.UserFollower{},
	)

	if err := models.SeedRolesAndPermissions(db); err != nil {
		utils.Sugar.Fatalf("failed to seed roles and permissions: %v", err)
	}

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
