// Command example runs a minimal signup API demonstrating aggregated
// validation: every invalid field in the payload comes back in a single
// 422 response instead of one error per round-trip.
package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fieldbind/fieldbind"
	"github.com/fieldbind/fieldbind/bind"
	"github.com/fieldbind/fieldbind/codec"
	"github.com/fieldbind/fieldbind/config"
	"github.com/fieldbind/fieldbind/httpx"
	"github.com/fieldbind/fieldbind/logger"
	"github.com/fieldbind/fieldbind/rules"
)

// Email is a validated address. The same type backs any DTO property; the
// binding layer attributes errors to the property name, not to "email".
type Email string

func NewEmail(value, field string) (Email, error) {
	if err := rules.Apply(
		rules.Required(field, value),
		rules.Email(field, value),
	); err != nil {
		return "", err
	}
	return Email(value), nil
}

func (e Email) String() string { return string(e) }

// Name is a required, bounded display name.
type Name string

func NewName(value, field string) (Name, error) {
	if err := rules.Apply(
		rules.Required(field, value),
		rules.MaxLen(field, value, 100),
	); err != nil {
		return "", err
	}
	return Name(value), nil
}

func (n Name) String() string { return string(n) }

// Age is a bounded integer.
type Age int64

func NewAge(value int64, field string) (Age, error) {
	if err := rules.Apply(rules.Between(field, value, 13, 130)); err != nil {
		return 0, err
	}
	return Age(value), nil
}

type SignupRequest struct {
	Email      Email                    `json:"email"`
	Name       Name                     `json:"name"`
	MiddleName fieldbind.Optional[Name] `json:"middleName"`
	Age        fieldbind.Optional[Age]  `json:"age"`
}

type ServerConfig struct {
	Addr        string `env:"ADDR" envDefault:":8080"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text"`
	MaxBodySize int64  `env:"MAX_BODY_SIZE" envDefault:"1048576"`
}

func registerTypes() {
	codec.Register(codec.Default, NewEmail, Email.String)
	codec.Register(codec.Default, NewName, Name.String)
	codec.Register(codec.Default, NewAge, func(a Age) int64 { return int64(a) })
}

func main() {
	var cfg ServerConfig
	config.MustLoad(&cfg)

	log := logger.New(
		logger.WithFormat(logger.Format(cfg.LogFormat)),
		logger.WithAttr(slog.String("service", "signup-example")),
		logger.WithContextValue("request_id", httpx.RequestIDContextKey),
	)

	registerTypes()

	r := chi.NewRouter()
	r.Use(httpx.Middleware)
	r.Post("/signup", httpx.Handle(log,
		func(ctx context.Context, req SignupRequest) (any, error) {
			middle, _ := req.MiddleName.Get()
			log.InfoContext(ctx, "signup accepted",
				slog.String("email", req.Email.String()),
				slog.String("name", req.Name.String()),
				slog.String("middle_name", middle.String()),
			)
			return map[string]string{"email": req.Email.String()}, nil
		},
		bind.WithMaxBodySize(cfg.MaxBodySize),
		bind.WithDisallowUnknownFields(),
	))

	log.Info("listening", slog.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		log.Error("server stopped", slog.String("error", err.Error()))
	}
}
