package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/lullaby/internal/audio"
	"github.com/terraincognita07/lullaby/internal/services"
	"go.uber.org/zap"
)

const contextLanguageKey = "lang"

var validate = newValidator()

var serviceErrorStatuses = []struct {
	err    error
	status int
}{
	{err: services.ErrChildNotFound, status: fiber.StatusNotFound},
	{err: services.ErrTrackingNotFound, status: fiber.StatusNotFound},
	{err: services.ErrRecommendationNotFound, status: fiber.StatusNotFound},
	{err: services.ErrTrackingActive, status: fiber.StatusConflict},
	{err: services.ErrActionUnavailable, status: fiber.StatusUnprocessableEntity},
	{err: services.ErrChildNameRequired, status: fiber.StatusBadRequest},
	{err: services.ErrBirthDateInFuture, status: fiber.StatusBadRequest},
	{err: services.ErrInvalidSleepGoal, status: fiber.StatusBadRequest},
	{err: services.ErrInvalidRoutineTime, status: fiber.StatusBadRequest},
	{err: services.ErrInvalidChildProfile, status: fiber.StatusBadRequest},
	{err: services.ErrSessionChildRequired, status: fiber.StatusBadRequest},
	{err: services.ErrInvalidSessionRange, status: fiber.StatusBadRequest},
	{err: services.ErrInvalidSleepQuality, status: fiber.StatusBadRequest},
	{err: services.ErrInvalidSleepMood, status: fiber.StatusBadRequest},
	{err: services.ErrInvalidSleepSession, status: fiber.StatusBadRequest},
	{err: services.ErrUnknownStatsPeriod, status: fiber.StatusBadRequest},
	{err: services.ErrInvalidNightModeClock, status: fiber.StatusBadRequest},
	{err: services.ErrInvalidNightModeBrightness, status: fiber.StatusBadRequest},
	{err: services.ErrExportFromDateInvalid, status: fiber.StatusBadRequest},
	{err: services.ErrExportToDateInvalid, status: fiber.StatusBadRequest},
	{err: services.ErrExportRangeInvalid, status: fiber.StatusBadRequest},
	{err: audio.ErrUnknownSound, status: fiber.StatusNotFound},
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	instance := validator.New(validator.WithRequiredStructEnabled())
	instance.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return instance
}

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// respondServiceError maps service sentinels to statuses. The most specific sentinel is
// listed first so joined validation errors report the precise cause.
func (handler *Handler) respondServiceError(c *fiber.Ctx, err error, fallback string) error {
	for _, mapping := range serviceErrorStatuses {
		if errors.Is(err, mapping.err) {
			return apiError(c, mapping.status, mapping.err.Error())
		}
	}
	handler.logger.Error(fallback, zap.String("path", c.Path()), zap.Error(err))
	return apiError(c, fiber.StatusInternalServerError, fallback)
}

func parseJSONBody(c *fiber.Ctx, target any) error {
	if err := c.BodyParser(target); err != nil {
		return errors.New("invalid request body")
	}
	if err := validate.Struct(target); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	messages := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		messages = append(messages, formatFieldError(fieldError))
	}
	return errors.New(strings.Join(messages, "; "))
}

func formatFieldError(fieldError validator.FieldError) string {
	field := fieldError.Field()
	switch fieldError.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fieldError.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fieldError.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fieldError.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func (handler *Handler) LanguageMiddleware(c *fiber.Ctx) error {
	language := strings.TrimSpace(c.Query("lang"))
	if language != "" {
		language = handler.i18n.NormalizeLanguage(language)
	} else {
		language = handler.i18n.DetectFromAcceptLanguage(c.Get(fiber.HeaderAcceptLanguage))
	}
	c.Locals(contextLanguageKey, language)
	return c.Next()
}

func (handler *Handler) currentLanguage(c *fiber.Ctx) string {
	if language, ok := c.Locals(contextLanguageKey).(string); ok && language != "" {
		return language
	}
	return handler.i18n.DefaultLanguage()
}
