package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"phoneshop/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report json tag names, not Go field names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Treat decimal.Decimal as its string form so rules like "required" work.
	v.RegisterCustomTypeFunc(func(f reflect.Value) interface{} {
		if d, ok := f.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// bindAndValidate decodes the JSON body into dest and runs struct validation,
// writing the error response itself. Returns false when the request is bad.
func bindAndValidate(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("malformed JSON body"))
		return false
	}
	if err := validate.Struct(dest); err != nil {
		fields := map[string]string{}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// bindQuery decodes query parameters (filters) into dest.
func bindQuery(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindQuery(dest); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid query parameters"))
		return false
	}
	return true
}

// pathID parses the :id path segment as a UUID.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps a service error to its HTTP status.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := "internal server error"

	switch apierror.KindOf(err) {
	case apierror.KindValidation:
		status, msg = http.StatusBadRequest, err.Error()
	case apierror.KindNotFound:
		status, msg = http.StatusNotFound, err.Error()
	case apierror.KindConflict:
		status, msg = http.StatusConflict, err.Error()
	case apierror.KindInvariant:
		status, msg = http.StatusUnprocessableEntity, err.Error()
	}
	c.JSON(status, apierror.New(msg))
}
