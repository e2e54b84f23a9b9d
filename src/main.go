package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"rbs/src/boot"
	"rbs/src/booking"
	"rbs/src/config"
	"rbs/src/db"
	"rbs/src/directory"
	"rbs/src/lib"
	"rbs/src/middlewares"
	"rbs/src/notify"
	"rbs/src/store"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/joho/godotenv"
	_ "github.com/joho/godotenv/autoload"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

const (
	apiPrefix string = "/api/v1"
)

var engine *booking.Engine

func getEngine() *booking.Engine {
	if engine != nil {
		return engine
	}
	dbi := db.GetDb()
	engine = booking.New(
		store.New(dbi),
		directory.New(dbi, lib.GetRedisClient()),
		nil,
		notify.NewKafkaPublisher("reservations"),
	)
	return engine
}

var bookableDateValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	datetime, err := time.Parse(config.TIME_PARSE_FORMAT, date)
	if err != nil {
		return false
	}
	return !time.Now().After(datetime)
}

var gtfield validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	datetime, err := time.Parse(config.TIME_PARSE_FORMAT, date)
	if err != nil {
		return false
	}
	field := fl.Parent().FieldByName(fl.Param())
	fieldValue, ok := field.Interface().(string)
	if !ok {
		return false
	}
	fielddatetime, err := time.Parse(config.TIME_PARSE_FORMAT, fieldValue)
	if err != nil {
		return false
	}
	return datetime.After(fielddatetime)
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("bookabledate", bookableDateValidatorFunc)
		v.RegisterValidation("gtdate", gtfield)
	}
}

func generateJWT(email string, id uint, org uint) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(int(id)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		Audience:  jwt.ClaimStrings{fmt.Sprintf("org:%d", org), email},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

func maintenanceModeMiddleware(r *gin.Engine) *gin.Engine {
	r.Use(func(ctx *gin.Context) {
		if os.Getenv("MAINTENANCE_MODE") == "true" {
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "service under maintenance"})
			return
		}
	})
	return r
}

func setupRouter() *gin.Engine {
	r := gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{os.Getenv("CORS_ORIGIN")}
	corsConfig.AllowHeaders = []string{"Authorization", "Content-Type", "Origin"}
	r.Use(cors.New(corsConfig))
	r.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func apiv1Group(r *gin.Engine) *gin.RouterGroup {
	return r.Group(apiPrefix)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using process environment")
	}
	registerValidators()

	boot.InitDb()
	boot.DownloadSDKFileFromS3()
	boot.InitScheduler()
	defer boot.StopScheduler()
	boot.InitBroker()

	r := setupRouter()
	r = maintenanceModeMiddleware(r)
	apiv1 := apiv1Group(r)
	apiv1.Use(middlewares.AuthMiddleware)
	reservationHandlers(apiv1)
	resourceHandlers(apiv1)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(fmt.Sprintf(":%s", port)); err != nil {
		log.Fatalf("Error starting server: %s\n", err.Error())
	}
}
