package main

import (
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"regexp"
	"strconv"
	"time"
	"xbs/src/boot"
	"xbs/src/bus"
	"xbs/src/config"
	"xbs/src/middlewares"
	"xbs/src/modules"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	_ "github.com/joho/godotenv/autoload"
)

const (
	apiPrefix string = "/api/v1"
)

var futureDateValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	datetime, err := time.Parse(config.TIME_PARSE_FORMAT, date)
	if err != nil {
		return false
	}
	return datetime.After(time.Now())
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(middlewares.SecureHeaders)
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	return router
}

func maintenanceModeMiddleware(g *gin.Engine) *gin.Engine {
	g.Use(func(ctx *gin.Context) {
		mm := os.Getenv("MAINTENANCE_MODE")
		atob, err := strconv.ParseBool(mm)
		if err == nil && atob {
			err := errors.New("server is under maintenance")
			log.Println(err.Error())
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, err.Error())
			return
		}
	})
	return g
}

func apiv1Group(g *gin.Engine) *gin.RouterGroup {
	apiv1 := g.Group(apiPrefix)
	return apiv1
}

func appModules() *modules.Registry {
	return modules.NewRegistry(
		modules.Module{
			Name: "booths",
			Routes: func(g *gin.RouterGroup) {
				boothHandlers(g)
			},
		},
		modules.Module{
			Name: "reservations",
			Routes: func(g *gin.RouterGroup) {
				reservationHandlers(g)
			},
		},
		modules.Module{
			Name: "payments",
			Routes: func(g *gin.RouterGroup) {
				purchaseHandlers(g)
				invoiceHandlers(g)
			},
		},
		modules.Module{
			Name: "events",
			Routes: func(g *gin.RouterGroup) {
				eventHandlers(g)
			},
		},
		modules.Module{
			Name:          "notifications",
			EventHandlers: notificationHandlers,
		},
		modules.Module{
			Name:     "scheduler",
			Init:     func() error { boot.InitScheduler(); return nil },
			Shutdown: boot.StopScheduler,
		},
	)
}

func initLogger() {
	cwd, _ := os.Getwd()
	serverLogs := path.Join(cwd, "logs", "server.log")
	apiLogs := path.Join(cwd, "logs", "api.log")
	gin.ForceConsoleColor()

	f, _ := os.Create(apiLogs)
	gin.DefaultWriter = io.MultiWriter(f, os.Stdout)
	log.SetOutput(&lumberjack.Logger{
		Filename:   serverLogs,
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	})
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
	}
	initLogger()

	boot.InitDb()

	router := setupRouter()

	appHost := os.Getenv("APP_HOST")
	if apiEnv == "local" {
		router.Use(cors.Default())
	} else {
		cc := cors.DefaultConfig()
		cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PATCH", "PUT", "DELETE", "HEAD")
		cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
		cc.AllowOriginFunc = func(origin string) bool {
			match, _ := regexp.MatchString(appHost, origin)
			return match
		}
		cc.AllowCredentials = true
		cc.AllowAllOrigins = false
		router.Use(cors.New(cc))
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("futuredate", futureDateValidatorFunc)
	}

	router = maintenanceModeMiddleware(router)

	eventPublicRoutes(router)
	boothPublicRoutes(router)
	guestAuthRoutes(router)
	stripeWebhookRoute(router)

	registry := appModules()
	if err := registry.Init(); err != nil {
		log.Fatalf("Failed to initialize modules: %s", err)
	}
	registry.EventHandlers(bus.Default())

	authorized := router.Group(apiPrefix)
	authorized.Use(middlewares.AuthMiddleware)
	registry.Routes(authorized)

	defer func() {
		registry.Shutdown()
		bus.Default().Close()
	}()
	if err := router.Run(":9090"); err != nil {
		log.Printf("Server stopped: %s\n", err.Error())
	}
}
