package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	appAuth "github.com/skillswap/skillswap/internal/application/auth"
	appMeeting "github.com/skillswap/skillswap/internal/application/meeting"
	appReview "github.com/skillswap/skillswap/internal/application/review"
	appSession "github.com/skillswap/skillswap/internal/application/session"
	appUser "github.com/skillswap/skillswap/internal/application/user"
	"github.com/skillswap/skillswap/internal/domain/apperr"
	"github.com/skillswap/skillswap/internal/infrastructure/sse"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	authSvc    *appAuth.Service
	userSvc    *appUser.Service
	sessionSvc *appSession.Service
	reviewSvc  *appReview.Service
	meetingSvc *appMeeting.Service
	sseHub     *sse.Hub
	store      Pinger
	validate   *validator.Validate
	logger     zerolog.Logger
}

func NewServer(
	authSvc *appAuth.Service,
	userSvc *appUser.Service,
	sessionSvc *appSession.Service,
	reviewSvc *appReview.Service,
	meetingSvc *appMeeting.Service,
	sseHub *sse.Hub,
	store Pinger,
	logger zerolog.Logger,
) *Server {
	return &Server{
		authSvc:    authSvc,
		userSvc:    userSvc,
		sessionSvc: sessionSvc,
		reviewSvc:  reviewSvc,
		meetingSvc: meetingSvc,
		sseHub:     sseHub,
		store:      store,
		validate:   newValidator(),
		logger:     logger.With().Str("component", "http").Logger(),
	}
}

// Router builds the HTTP router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	r.Get("/healthz", s.healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		// Streams outlive the request timeout.
		r.With(s.requireAuth).Get("/stream", s.streamEvents)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(30 * time.Second))

			r.Route("/auth", func(r chi.Router) {
				r.Post("/register", s.register)
				r.Post("/login", s.login)
				r.With(s.requireAuth).Get("/me", s.me)
			})

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)

				r.Post("/skills", s.createSkill)
				r.Get("/users/{userId}", s.getUser)
				r.Get("/users/{userId}/skills", s.listUserSkills)

				r.Route("/sessions", func(r chi.Router) {
					r.Post("/", s.proposeSession)
					r.Get("/", s.listSessions)
					r.Get("/{sessionId}", s.getSession)
					r.Post("/{sessionId}/accept", s.acceptSession)
					r.Post("/{sessionId}/reject", s.rejectSession)
					r.Post("/{sessionId}/cancel", s.cancelSession)

					r.Post("/{sessionId}/counter-offers", s.createCounterOffer)
					r.Get("/{sessionId}/counter-offers", s.listCounterOffers)

					r.Post("/{sessionId}/completion/request", s.requestCompletion)
					r.Post("/{sessionId}/completion/respond", s.respondCompletion)

					r.Post("/{sessionId}/work", s.submitWork)
					r.Get("/{sessionId}/work", s.listWork)
				})

				r.Post("/counter-offers/{counterOfferId}/resolve", s.resolveCounterOffer)
				r.Post("/work/{submissionId}/review", s.reviewWork)

				r.Post("/reviews", s.submitReview)
				r.Get("/ratings", s.getRatings)

				r.Route("/meetings", func(r chi.Router) {
					r.Post("/", s.createMeeting)
					r.Get("/", s.listMeetings)
					r.Post("/{meetingId}/respond", s.respondMeeting)
					r.Post("/{meetingId}/cancel", s.cancelMeeting)
				})

				r.Get("/meeting-cancellations", s.listCancellations)
				r.Post("/meeting-cancellations/{cancellationId}/acknowledge", s.acknowledgeCancellation)
			})
		})
	})

	return r
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			s.logger.Error().Err(err).Msg("health check failed")
			respondError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "store unreachable")
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error   string                 `json:"error"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: code, Message: message})
}

// fail writes err as a JSON error. Business errors map to 4xx by kind;
// anything else is logged and hidden behind a 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if e, ok := apperr.As(err); ok {
		respondJSON(w, statusFor(e.Kind), errorResponse{
			Error:   e.ErrorCode(),
			Message: e.Message,
			Details: e.Details,
		})
		return
	}
	s.logger.Error().
		Err(err).
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("request failed")
	respondError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindAuthorization:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInvalidState,
		apperr.KindAlreadyRequested,
		apperr.KindCancellationWindow,
		apperr.KindMeetingLimit,
		apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func parseUUIDParam(r *http.Request, key string) (uuid.UUID, error) {
	val := chi.URLParam(r, key)
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid %s: %q", key, val)
	}
	return id, nil
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// bind decodes and validates a request body, writing a 400 on failure.
func (s *Server) bind(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := decodeBody(r, v); err != nil {
		respondError(w, http.StatusBadRequest, string(apperr.KindValidation), "invalid request body: "+err.Error())
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		respondError(w, http.StatusBadRequest, string(apperr.KindValidation), validationMessage(err))
		return false
	}
	return true
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "oneof":
			msgs = append(msgs, fe.Field()+" must be one of: "+fe.Param())
		case "min", "max":
			msgs = append(msgs, fe.Field()+" must be "+fe.Tag()+" "+fe.Param())
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}

func parseOptionalUUID(r *http.Request, key string) (*uuid.UUID, error) {
	val := strings.TrimSpace(r.URL.Query().Get(key))
	if val == "" {
		return nil, nil
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return nil, apperr.Validation("invalid %s: %q", key, val)
	}
	return &id, nil
}
