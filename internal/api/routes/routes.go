package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Rushil1274/palcodeai-local-testing/internal/api/handlers"
	"github.com/Rushil1274/palcodeai-local-testing/internal/api/middleware"
)

type Deps struct {
	Job       *handlers.JobHandler
	Candidate *handlers.CandidateHandler
	Resume    *handlers.ResumeHandler
	Interview *handlers.InterviewHandler
	Webhook   *handlers.WebhookHandler
	Artifact  *handlers.ArtifactHandler
	WS        *handlers.WSHandler
	Dev       *handlers.DevHandler

	APIKey  string
	DevMode bool
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/", func(c *gin.Context) {
		mode := "production"
		if d.DevMode {
			mode = "development"
		}
		c.JSON(200, gin.H{"service": "phone-screener", "mode": mode})
	})
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	v1 := r.Group("/v1")

	// Provider callbacks and artifact downloads carry no API key; the
	// telephony provider cannot send one.
	v1.GET("/voice/answer", d.Webhook.Answer)
	v1.POST("/voice/event", d.Webhook.Event)
	v1.POST("/voice/record", d.Webhook.Record)
	v1.GET("/artifacts/*path", d.Artifact.Serve)

	if d.WS != nil {
		v1.GET("/interviews/:id/ws", d.WS.Watch)
	}

	// Operator routes (shared API key)
	auth := v1.Group("/")
	auth.Use(middleware.APIKeyAuth(d.APIKey))

	auth.POST("/jd", d.Job.Create)
	auth.GET("/jd/:id", d.Job.Get)
	auth.POST("/candidates", d.Candidate.Create)
	auth.GET("/candidates/:id", d.Candidate.Get)
	auth.POST("/candidates/:id/resume_meta", d.Candidate.AttachResumeMeta)
	auth.POST("/resume", d.Resume.Parse)

	auth.POST("/interviews", d.Interview.Trigger)
	auth.GET("/interviews/:id", d.Interview.Get)

	if d.DevMode {
		auth.POST("/dev/simulate-answers/:id", d.Dev.SimulateAnswers)
		auth.GET("/dev/status", d.Dev.Status)
		auth.GET("/debug/latest", d.Dev.Latest)
	}
}
