package admin

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const maxCardTextLength = 200

type cardRequest struct {
	Text   string `json:"text" binding:"cardtext"`
	Weight int    `json:"weight" binding:"gte=0,lte=1000"`
	Detail string `json:"detail" binding:"max=1000"`
	Kind   string `json:"kind" binding:"max=32"`
}

type removeRequest struct {
	Text string `json:"text" binding:"cardtext"`
}

type bindMessages map[string]map[string]string

var cardMessages = bindMessages{
	"Text":   {"cardtext": "text must be 1-200 characters"},
	"Weight": {"gte": "weight must not be negative", "lte": "weight must be at most 1000"},
	"Detail": {"max": "detail is too long"},
	"Kind":   {"max": "kind is too long"},
}

var validatorOnce sync.Once

func registerValidators() {
	validatorOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = engine.RegisterValidation("cardtext", func(fl validator.FieldLevel) bool {
			text := strings.TrimSpace(fl.Field().String())
			return text != "" && utf8.RuneCountInString(text) <= maxCardTextLength
		})
	})
}

func bindJSON(c *gin.Context, req any, messages bindMessages) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": resolveBindError(err, messages)})
		return false
	}
	return true
}

func resolveBindError(err error, messages bindMessages) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, verr := range verrs {
			if msg, ok := messages[verr.Field()][verr.Tag()]; ok {
				return msg
			}
		}
	}
	return "invalid card payload"
}
