package handler

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/ward-roster/roster/backend/internal/catalog"
	"github.com/ward-roster/roster/backend/internal/config"
	"github.com/ward-roster/roster/backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	catalog     *catalog.Catalog
	location    *time.Location
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, c *catalog.Catalog, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	loc := time.UTC
	if cfg.Calendar.TimeZone != "" {
		l, err := time.LoadLocation(cfg.Calendar.TimeZone)
		if err != nil {
			return nil, err
		}
		loc = l
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		catalog:     c,
		location:    loc,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.requestID)
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/api", func(r chi.Router) {
		r.Get("/debug", h.Debug)

		// 以下 API 需要携带外部认证服务签发的令牌
		r.Group(func(r chi.Router) {
			r.Use(h.auth)

			r.Get("/shifts", h.GetShifts)

			r.Route("/staff", func(r chi.Router) {
				r.Get("/", h.GetAllStaff)
				r.Post("/", h.ReplaceStaff)
			})

			r.Route("/absences", func(r chi.Router) {
				r.Get("/", h.GetAllAbsences)
				r.Post("/", h.ReplaceAbsences)
			})

			r.Route("/wishes", func(r chi.Router) {
				r.Get("/", h.GetAllWishes)
				r.Post("/", h.ReplaceWishes)
			})
			r.Post("/upload/wishes", h.UploadWishes)

			r.Route("/schedule", func(r chi.Router) {
				r.Get("/", h.GetSchedule)
				r.Post("/", h.SaveSchedule)
				r.Get("/export", h.ExportSchedule)
			})

			r.Get("/statistics", h.GetStatistics)

			r.Route("/calendar/{staffID}", func(r chi.Router) {
				r.Get("/", h.GetStaffCalendar)
				r.Get("/ics", h.GetStaffCalendarICS)
			})
		})
	})
}
