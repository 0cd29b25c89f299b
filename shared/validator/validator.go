package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"villa/shared/constant"
	"villa/shared/failure"
	"villa/shared/money"
	"villa/shared/timezone"

	val "github.com/go-playground/validator/v10"
)

var validate *val.Validate

var (
	personNamePattern   = regexp.MustCompile(`^[\p{L}][\p{L} '\-]*$`)
	clockTimePattern    = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	discountCodePattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)
)

func registerPersonNameValidation(field val.FieldLevel) bool {
	return personNamePattern.MatchString(strings.TrimSpace(field.Field().String()))
}

func registerClockTimeValidation(field val.FieldLevel) bool {
	return clockTimePattern.MatchString(field.Field().String())
}

func registerDiscountCodeValidation(field val.FieldLevel) bool {
	return discountCodePattern.MatchString(field.Field().String())
}

func registerCurrencyValidation(field val.FieldLevel) bool {
	_, err := money.ParseCurrency(field.Field().String())

	return err == nil
}

func registerDateStringValidation(field val.FieldLevel) bool {
	_, err := timezone.ParseDate(field.Field().String())

	return err == nil
}

// registerMimetypeValidation strips parameters such as charset before matching.
func registerMimetypeValidation(field val.FieldLevel) bool {
	file, ok := field.Field().Interface().(multipart.FileHeader)
	if !ok {
		return false
	}

	contentType, _, _ := strings.Cut(file.Header.Get(constant.RequestHeaderContentType), ";")
	contentType = strings.TrimSpace(contentType)

	allowedTypes := strings.Split(field.Param(), " ")

	return slices.Contains(allowedTypes, contentType)
}

func registerFileSizeValidation(field val.FieldLevel) bool {
	file, ok := field.Field().Interface().(multipart.FileHeader)
	if !ok {
		return false
	}

	fileSize := int(file.Size)

	maxSizeMB, err := strconv.ParseFloat(field.Param(), 64)
	if err != nil {
		return false
	}

	bytesConversion := 1024.0
	maxSizeBytes := int(maxSizeMB * bytesConversion * bytesConversion)

	return fileSize <= maxSizeBytes
}

// jsonFieldName reports fields by their wire name so messages match the request body.
func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")

	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	default:
		return name
	}
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)

	err := validate.RegisterValidation("mimetypes", registerMimetypeValidation)
	if err != nil {
		panic(err)
	}

	err = validate.RegisterValidation("maxfilesize", registerFileSizeValidation)
	if err != nil {
		panic(err)
	}

	custom := map[string]val.Func{
		"personname":   registerPersonNameValidation,
		"hhmm":         registerClockTimeValidation,
		"discountcode": registerDiscountCodeValidation,
		"currency":     registerCurrencyValidation,
		"datestring":   registerDateStringValidation,
	}

	for tag, fn := range custom {
		if err = validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

// Validate reads from the given io.Reader into the given struct, and then performs validation
// on the struct using the validator package. If the struct is invalid according to the
// validation rules, an error is returned. Otherwise, nil is returned.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)
	err := decoder.Decode(data)

	if err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	err := validate.Struct(data)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	err := validate.Var(field, tag)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}
