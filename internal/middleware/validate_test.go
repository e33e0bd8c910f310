package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

type emailQuery struct {
	Email string `query:"email" validate:"required,email"`
}

func TestValidateQueryParams(t *testing.T) {
	v := NewValidator()
	app := fiber.New()
	app.Get("/check", func(c *fiber.Ctx) error {
		var q emailQuery
		if ok, err := v.ValidateQueryParams(c, &q); !ok {
			return err
		}
		return c.JSON(fiber.Map{"email": q.Email})
	})

	cases := []struct {
		name   string
		target string
		status int
	}{
		{"valid", "/check?email=user%40example.com", fiber.StatusOK},
		{"missing", "/check", fiber.StatusUnprocessableEntity},
		{"malformed", "/check?email=not-an-email", fiber.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tc.target, nil))
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tc.status {
				t.Errorf("status: got %d, want %d", resp.StatusCode, tc.status)
			}
		})
	}
}
