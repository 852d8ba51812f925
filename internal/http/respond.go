package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/apperr"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/middleware"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode reads a JSON body into dst and validates it. An empty body decodes
// as an empty object so optional-only payloads can be omitted.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperr.Validation("invalid json")
	}
	if err := validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Validation(err.Error())
	}

	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return apperr.Validation(field + " is required")
	case "email":
		return apperr.Validation(field + " must be a valid email")
	case "url":
		return apperr.Validation(field + " must be an absolute URL")
	case "min":
		if fe.Kind() == reflect.String {
			return apperr.Validation(field + " must be at least " + fe.Param() + " characters")
		}
		return apperr.Validation(field + " must be at least " + fe.Param())
	case "max":
		return apperr.Validation(field + " must be at most " + fe.Param() + " characters")
	case "gte", "gt":
		return apperr.Validation(field + " must be at least 1")
	case "lte":
		return apperr.Validation(field + " must be at most " + fe.Param())
	default:
		return apperr.Validation(field + " is invalid")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"msg": msg})
}

// writeError maps domain errors onto HTTP statuses. Unclassified errors are
// logged and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, logger *log.Logger, err error) {
	var gwErr *checkout.GatewayRequestError
	switch {
	case errors.Is(err, apperr.ErrValidation):
		middleware.WriteError(w, r, http.StatusBadRequest, apperr.Message(err))
	case errors.Is(err, checkout.ErrEmptyCart):
		middleware.WriteError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrUnauthorized):
		middleware.WriteError(w, r, http.StatusUnauthorized, apperr.Message(err))
	case errors.Is(err, apperr.ErrForbidden):
		middleware.WriteError(w, r, http.StatusForbidden, apperr.Message(err))
	case errors.Is(err, apperr.ErrNotFound):
		middleware.WriteError(w, r, http.StatusNotFound, apperr.Message(err))
	case errors.Is(err, apperr.ErrConflict):
		middleware.WriteError(w, r, http.StatusConflict, apperr.Message(err))
	case errors.Is(err, checkout.ErrGatewayUnconfigured):
		logger.Printf("checkout attempted without gateway credentials")
		middleware.WriteError(w, r, http.StatusInternalServerError, err.Error())
	case errors.As(err, &gwErr):
		logger.Printf("payment gateway error: %v", gwErr)
		middleware.WriteError(w, r, http.StatusBadGateway, gwErr.Message)
	default:
		logger.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		middleware.WriteError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
