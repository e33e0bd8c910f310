package api

import (
	"net/url"
	"strings"
	"time"

	"github.com/cyberpulse/pulse/internal/logger"
	"github.com/cyberpulse/pulse/internal/middleware"
	"github.com/cyberpulse/pulse/internal/models"
	"github.com/cyberpulse/pulse/internal/normalize"
	"github.com/cyberpulse/pulse/internal/repository"
	"github.com/gofiber/fiber/v2"
)

// Handlers bundles the repositories behind the HTTP surface.
type Handlers struct {
	news     *repository.NewsRepository
	breaches *repository.BreachRepository
	cves     *repository.CVERepository
	events   *repository.EventsRepository
	search   *repository.SearchRepository
	validate *middleware.Validator
}

func NewHandlers(
	news *repository.NewsRepository,
	breaches *repository.BreachRepository,
	cves *repository.CVERepository,
	events *repository.EventsRepository,
	search *repository.SearchRepository,
) *Handlers {
	return &Handlers{
		news:     news,
		breaches: breaches,
		cves:     cves,
		events:   events,
		search:   search,
		validate: middleware.NewValidator(),
	}
}

// respondFeed writes a feed stream as one JSON response. By default the
// stream is drained and the authoritative final emission is returned; with
// stale=1 the first emission is returned instead, so a caller can show
// whatever the cache holds without waiting on the network. The stream buffer
// absorbs the abandoned emissions.
func respondFeed[T any](c *fiber.Ctx, stream <-chan repository.Result[[]T]) error {
	if c.QueryBool("stale", false) {
		return respondList(c, <-stream)
	}
	return respondList(c, repository.CollectFeed(stream))
}

func respondList[T any](c *fiber.Ctx, res repository.Result[[]T]) error {
	if !res.IsOK() {
		return res.Err
	}
	return c.JSON(fiber.Map{
		"total": len(res.Data),
		"items": res.Data,
	})
}

// HealthCheck handles the /health endpoint
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	counts := fiber.Map{}
	if n, err := h.news.CachedCount(c.Context()); err == nil {
		counts["news"] = n
	}
	if n, err := h.breaches.CachedCount(c.Context()); err == nil {
		counts["breaches"] = n
	}
	if n, err := h.cves.CachedCount(c.Context()); err == nil {
		counts["cves"] = n
	}
	if n, err := h.events.CachedCount(c.Context()); err == nil {
		counts["events"] = n
	}
	return c.JSON(fiber.Map{
		"status": "ok",
		"cached": counts,
		"time":   time.Now().Format(time.RFC3339),
	})
}

// GetNewsFeed handles GET /api/v1/news
func (h *Handlers) GetNewsFeed(c *fiber.Ctx) error {
	var category models.Category
	if raw := c.Query("category"); raw != "" {
		category = normalize.ResolveCategory(raw)
	}
	refresh := c.QueryBool("refresh", false)

	return respondFeed(c, h.news.GetFeed(c.Context(), category, refresh))
}

// GetNewsByTags handles GET /api/v1/news/tags?tags=RANSOMWARE,PHISHING
func (h *Handlers) GetNewsByTags(c *fiber.Ctx) error {
	raw := strings.Split(c.Query("tags"), ",")
	tags := normalize.ResolveTags(raw)
	if len(tags) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No recognized tags provided",
		})
	}
	return respondFeed(c, h.news.GetByTags(c.Context(), tags))
}

// SearchNews handles GET /api/v1/news/search
func (h *Handlers) SearchNews(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Query parameter q is required",
		})
	}
	return respondList(c, h.news.Search(c.Context(), query))
}

// GetSavedNews handles GET /api/v1/news/saved
func (h *Handlers) GetSavedNews(c *fiber.Ctx) error {
	return respondList(c, h.news.GetSaved(c.Context()))
}

// GetNewsByID handles GET /api/v1/news/:id
func (h *Handlers) GetNewsByID(c *fiber.Ctx) error {
	res := h.news.GetByID(c.Context(), c.Params("id"))
	if !res.IsOK() {
		return res.Err
	}
	return c.JSON(res.Data)
}

// ToggleSaveNews handles POST /api/v1/news/:id/save
func (h *Handlers) ToggleSaveNews(c *fiber.Ctx) error {
	res := h.news.ToggleSave(c.Context(), c.Params("id"))
	if !res.IsOK() {
		return res.Err
	}
	return c.JSON(fiber.Map{"saved": res.Data})
}

// MarkNewsRead handles POST /api/v1/news/:id/read
func (h *Handlers) MarkNewsRead(c *fiber.Ctx) error {
	if err := h.news.MarkAsRead(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RefreshNews handles POST /api/v1/news/refresh
func (h *Handlers) RefreshNews(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if err := h.news.RefreshAndCache(c.Context(), limit); err != nil {
		logger.WithError(err).Msg("News refresh failed")
		return err
	}
	return c.JSON(fiber.Map{"status": "refreshed"})
}

// GetBreaches handles GET /api/v1/breaches
func (h *Handlers) GetBreaches(c *fiber.Ctx) error {
	refresh := c.QueryBool("refresh", false)
	return respondFeed(c, h.breaches.GetAllBreaches(c.Context(), refresh))
}

// GetRecentBreaches handles GET /api/v1/breaches/recent
func (h *Handlers) GetRecentBreaches(c *fiber.Ctx) error {
	return respondFeed(c, h.breaches.GetRecentBreaches(c.Context()))
}

// SearchBreaches handles GET /api/v1/breaches/search
func (h *Handlers) SearchBreaches(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Query parameter q is required",
		})
	}
	return respondList(c, h.breaches.Search(c.Context(), query))
}

type pwnedCheckQuery struct {
	Email string `query:"email" validate:"required,email"`
}

// CheckPwned handles GET /api/v1/breaches/check
func (h *Handlers) CheckPwned(c *fiber.Ctx) error {
	var q pwnedCheckQuery
	if ok, err := h.validate.ValidateQueryParams(c, &q); !ok {
		return err
	}

	res := h.breaches.CheckEmailPwned(c.Context(), q.Email)
	if !res.IsOK() {
		return res.Err
	}
	return c.JSON(res.Data)
}

// GetBreachByName handles GET /api/v1/breaches/:name
func (h *Handlers) GetBreachByName(c *fiber.Ctx) error {
	res := h.breaches.GetByName(c.Context(), c.Params("name"))
	if !res.IsOK() {
		return res.Err
	}
	return c.JSON(res.Data)
}

// GetCVEs handles GET /api/v1/cves
func (h *Handlers) GetCVEs(c *fiber.Ctx) error {
	var severity models.Severity
	if raw := c.Query("severity"); raw != "" {
		severity = models.Severity(strings.ToUpper(raw))
	}
	limit := c.QueryInt("limit", 20)
	refresh := c.QueryBool("refresh", false)

	return respondFeed(c, h.cves.GetRecent(c.Context(), severity, limit, refresh))
}

// SearchCVEs handles GET /api/v1/cves/search
func (h *Handlers) SearchCVEs(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Query parameter q is required",
		})
	}
	return respondList(c, h.cves.Search(c.Context(), query))
}

// GetCVEsByProduct handles GET /api/v1/cves/product/:product
func (h *Handlers) GetCVEsByProduct(c *fiber.Ctx) error {
	product, err := urlDecode(c.Params("product"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid product name",
		})
	}
	return respondList(c, h.cves.ListByProduct(c.Context(), product))
}

// GetCriticalCVEs handles GET /api/v1/cves/critical
func (h *Handlers) GetCriticalCVEs(c *fiber.Ctx) error {
	return respondList(c, h.cves.GetCriticalExploited(c.Context()))
}

// GetCVEByID handles GET /api/v1/cves/:id
func (h *Handlers) GetCVEByID(c *fiber.Ctx) error {
	id := strings.ToUpper(c.Params("id"))
	if !normalize.IsCVEID(id) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "CVE id must look like CVE-YYYY-NNNN",
		})
	}
	res := h.cves.GetByID(c.Context(), id)
	if !res.IsOK() {
		return res.Err
	}
	return c.JSON(res.Data)
}

// GetEvents handles GET /api/v1/events
func (h *Handlers) GetEvents(c *fiber.Ctx) error {
	refresh := c.QueryBool("refresh", false)
	return respondFeed(c, h.events.GetUpcoming(c.Context(), refresh))
}

// GetEventsByType handles GET /api/v1/events/type/:type
func (h *Handlers) GetEventsByType(c *fiber.Ctx) error {
	typ := models.EventType(strings.ToUpper(c.Params("type")))
	return respondList(c, h.events.GetByType(c.Context(), typ))
}

// GetEventsForMonth handles GET /api/v1/events/month
func (h *Handlers) GetEventsForMonth(c *fiber.Ctx) error {
	now := time.Now().UTC()
	year := c.QueryInt("year", now.Year())
	month := c.QueryInt("month", int(now.Month()))
	if month < 1 || month > 12 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Month must be between 1 and 12",
		})
	}
	return respondList(c, h.events.GetForMonth(c.Context(), year, time.Month(month)))
}

// GetEventReminders handles GET /api/v1/events/reminders
func (h *Handlers) GetEventReminders(c *fiber.Ctx) error {
	return respondList(c, h.events.GetWithReminders(c.Context()))
}

// ToggleEventReminder handles POST /api/v1/events/:id/reminder
func (h *Handlers) ToggleEventReminder(c *fiber.Ctx) error {
	res := h.events.ToggleReminder(c.Context(), c.Params("id"))
	if !res.IsOK() {
		return res.Err
	}
	return c.JSON(fiber.Map{"reminder": res.Data})
}

// ToggleEventRegistration handles POST /api/v1/events/:id/register
func (h *Handlers) ToggleEventRegistration(c *fiber.Ctx) error {
	res := h.events.ToggleRegistered(c.Context(), c.Params("id"))
	if !res.IsOK() {
		return res.Err
	}
	return c.JSON(fiber.Map{"registered": res.Data})
}

// CleanupPastEvents handles DELETE /api/v1/events/past
func (h *Handlers) CleanupPastEvents(c *fiber.Ctx) error {
	if err := h.events.CleanupPast(c.Context()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// OmniSearch handles GET /api/v1/search
func (h *Handlers) OmniSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	return c.JSON(h.search.OmniSearch(c.Context(), query))
}

// urlDecode unescapes a path parameter; product names carry spaces.
func urlDecode(s string) (string, error) {
	return url.PathUnescape(strings.ReplaceAll(s, "+", " "))
}
