package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hitalo07/bootcamp-gostack-meetapp/auth"
	"github.com/hitalo07/bootcamp-gostack-meetapp/meetup"
	"github.com/hitalo07/bootcamp-gostack-meetapp/postgres"
	"github.com/hitalo07/bootcamp-gostack-meetapp/rabbitmq"
	appredis "github.com/hitalo07/bootcamp-gostack-meetapp/redis"
	"github.com/hitalo07/bootcamp-gostack-meetapp/user"
)

const sessionTTL = 7 * 24 * time.Hour

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Printf("error creating the logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	dbConnStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("POSTGRES_HOST"),
		os.Getenv("POSTGRES_PORT"),
		os.Getenv("POSTGRES_DB"),
	)

	db := postgres.NewDB(dbConnStr)
	if err := db.Open(context.Background()); err != nil {
		logger.Fatal("cannot open db", zap.Error(err))
	}
	defer db.Close()
	logger.Info("opened postgres connection")

	amqpConnStr := fmt.Sprintf(
		"amqp://%s:%s@%s:%s",
		os.Getenv("AMQP_USER"),
		os.Getenv("AMQP_PASSWORD"),
		os.Getenv("AMQP_HOST"),
		os.Getenv("AMQP_PORT"),
	)

	producer := rabbitmq.NewProducer(amqpConnStr)
	if err := producer.Open(); err != nil {
		logger.Fatal("cannot open rabbitmq connection", zap.Error(err))
	}
	defer producer.Close()
	logger.Info("opened rabbitmq connection")

	redisClient := goredis.NewClient(&goredis.Options{
		Addr: fmt.Sprintf("%s:%s", os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")),
	})
	defer redisClient.Close()
	logger.Info("opened redis connection")

	jwtSecret, err := requireEnv("JWT_SECRET")
	if err != nil {
		logger.Fatal("missing configuration", zap.Error(err))
	}

	uploadsDir := os.Getenv("UPLOADS_DIR")
	if uploadsDir == "" {
		uploadsDir = "tmp/uploads"
	}
	if err := os.MkdirAll(uploadsDir, 0o755); err != nil {
		logger.Fatal("cannot create uploads dir", zap.Error(err))
	}

	server := &Server{
		meetups:    meetup.NewService(&postgres.MeetupStore{DB: db}, appredis.NewMeetupCache(redisClient), producer, logger),
		users:      user.NewService(&postgres.UserStore{DB: db}, logger),
		files:      &postgres.FileStore{DB: db},
		tokens:     auth.NewTokenManager(jwtSecret, sessionTTL),
		uploadsDir: uploadsDir,
		logger:     logger,
	}

	r := gin.Default()

	r.POST("/users", server.createUser)
	r.POST("/sessions", server.createSession)

	authed := r.Group("/", server.authRequired)
	authed.PUT("/users", server.updateUser)
	authed.POST("/files", server.createFile)
	authed.GET("/meetups", server.listMeetups)
	authed.GET("/meetups/:meetupId", server.findMeetup)
	authed.POST("/meetups", server.createMeetup)
	authed.PUT("/meetups/:meetupId", server.updateMeetup)
	authed.DELETE("/meetups/:meetupId", server.deleteMeetup)

	r.Run()
}

// requireEnv fetches a variable the server cannot start without. Tokens
// signed with an empty secret would be forgeable, so absence is an error
// rather than a default.
func requireEnv(name string) (string, error) {
	v := os.Getenv(name)
	if v == "" {
		return "", fmt.Errorf("%s must be set", name)
	}
	return v, nil
}
