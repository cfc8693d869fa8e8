package handlers

import (
	"errors"
	"math"
	"net/http"
	"slices"
	"strconv"

	"github.com/AtRiskMedia/praxis/internal/application/container"
	"github.com/AtRiskMedia/praxis/internal/domain/demo"
	"github.com/AtRiskMedia/praxis/internal/domain/lead"
	"github.com/AtRiskMedia/praxis/internal/domain/profiling"
	"github.com/AtRiskMedia/praxis/internal/domain/roi"
	"github.com/AtRiskMedia/praxis/internal/domain/user"
	"github.com/AtRiskMedia/praxis/internal/presentation/http/middleware"
	"github.com/AtRiskMedia/praxis/internal/presentation/templates"
	"github.com/gin-gonic/gin"
)

// PageHandlers renders the localized HTML pages
type PageHandlers struct {
	app      *container.Container
	renderer *templates.Renderer
}

// NewPageHandlers creates page handlers over the container's services
func NewPageHandlers(app *container.Container, renderer *templates.Renderer) *PageHandlers {
	return &PageHandlers{app: app, renderer: renderer}
}

type professionCard struct {
	Slug    string
	Title   string
	Tagline string
}

type demoCard struct {
	Slug      string
	Title     string
	Viewed    bool
	Completed bool
	Progress  int
}

const htmlContentType = "text/html; charset=utf-8"

func (h *PageHandlers) render(c *gin.Context, status int, name, title string, data any) {
	out, err := h.renderer.Execute(name, page(c, title, data))
	if err != nil {
		h.app.Logger.System().Error("Page render failed", "page", name, "error", err.Error())
		h.serverError(c)
		return
	}
	c.Data(status, htmlContentType, out)
}

// serverError answers 500 with the localized error page; the cause stays in the logs.
func (h *PageHandlers) serverError(c *gin.Context) {
	out, err := h.renderer.Execute("error", page(c, h.t(c, "errors.server_title"), nil))
	if err != nil {
		c.String(http.StatusInternalServerError, h.t(c, "errors.server"))
		return
	}
	c.Data(http.StatusInternalServerError, htmlContentType, out)
}

func (h *PageHandlers) t(c *gin.Context, key string) string {
	return h.app.Strings.T(middleware.Locale(c), key)
}

func (h *PageHandlers) professionCards(locale string) []professionCard {
	list := h.app.ROIService.Professions()
	out := make([]professionCard, 0, len(list))
	for _, p := range list {
		text := p.Localized(locale)
		out = append(out, professionCard{Slug: p.Slug, Title: text.Title, Tagline: text.Tagline})
	}
	return out
}

// NotFound renders the localized 404 page.
func (h *PageHandlers) NotFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "not_found", h.t(c, "errors.not_found"), nil)
}

// Home handles GET /
func (h *PageHandlers) Home(c *gin.Context) {
	h.render(c, http.StatusOK, "home", "", gin.H{
		"Professions": h.professionCards(middleware.Locale(c)),
	})
}

// Profession handles GET /professioni/:slug. Landing on a profession page
// counts as selecting it.
func (h *PageHandlers) Profession(c *gin.Context) {
	locale := middleware.Locale(c)
	p, err := h.app.ROIService.Profession(c.Param("slug"))
	if err != nil {
		h.NotFound(c)
		return
	}

	ctx := c.Request.Context()
	slug := p.Slug
	h.app.ProfilingService.Accumulator(ctx, middleware.SessionID(c)).Update(ctx, profiling.Partial{Profession: &slug})

	var demos []demoCard
	for _, d := range h.app.Demos.All() {
		if d.Profession == p.Slug {
			demos = append(demos, demoCard{Slug: d.Slug, Title: d.TitleFor(locale)})
		}
	}
	text := p.Localized(locale)
	h.render(c, http.StatusOK, "profession", text.Title, gin.H{
		"Slug":    p.Slug,
		"Title":   text.Title,
		"Tagline": text.Tagline,
		"Percent": strconv.Itoa(int(math.Round(p.Multiplier * 100))),
		"Demos":   demos,
	})
}

// Calculator handles GET /calcolatore. When weeklyHours is present the
// estimate is computed server-side and recorded for the session.
func (h *PageHandlers) Calculator(c *gin.Context) {
	locale := middleware.Locale(c)
	in := roi.Input{Profession: c.Query("profession")}
	if in.Profession == "" {
		in.Profession = h.app.ProfilingService.Snapshot(c.Request.Context(), middleware.SessionID(c)).Profession
	}
	if n, err := strconv.Atoi(c.Query("clients")); err == nil && n >= 0 {
		in.ClientCount = n
	}

	var est *roi.Estimate
	if hours, err := strconv.ParseFloat(c.Query("weeklyHours"), 64); err == nil && hours >= 0 && hours <= 168 {
		in.WeeklyAdminHours = hours
		ctx := c.Request.Context()
		acc := h.app.ProfilingService.Accumulator(ctx, middleware.SessionID(c))
		e := h.app.ROIService.Estimate(ctx, in, locale, acc)
		est = &e
	}

	h.render(c, http.StatusOK, "calculator", h.t(c, "calculator.title"), gin.H{
		"Professions": h.professionCards(locale),
		"Input":       in,
		"Estimate":    est,
	})
}

// Contact handles GET /contatti
func (h *PageHandlers) Contact(c *gin.Context) {
	h.render(c, http.StatusOK, "contact", h.t(c, "contact.title"), gin.H{
		"Form":   lead.Form{},
		"Errors": map[string]string{},
	})
}

// ContactSubmit handles POST /contatti, the no-script path of the contact form.
func (h *PageHandlers) ContactSubmit(c *gin.Context) {
	var form lead.Form
	_ = c.ShouldBind(&form)

	_, err := h.app.LeadService.Submit(c.Request.Context(), middleware.SessionID(c), form)
	data := gin.H{"Form": form, "Errors": map[string]string{}}
	status := http.StatusOK
	var verr *lead.ValidationError
	switch {
	case err == nil:
		data["Sent"] = true
		data["Notice"] = "contact.success"
		data["NoticeKind"] = "success"
	case errors.As(err, &verr):
		status = http.StatusUnprocessableEntity
		data["Errors"] = verr.FieldErrors
	case errors.Is(err, lead.ErrSubmissionInFlight):
		status = http.StatusConflict
		data["Notice"] = "contact.in_flight"
		data["NoticeKind"] = "error"
	default:
		status = http.StatusInternalServerError
		data["Notice"] = "contact.failure"
		data["NoticeKind"] = "error"
	}
	h.render(c, status, "contact", h.t(c, "contact.title"), data)
}

// Login handles GET /login
func (h *PageHandlers) Login(c *gin.Context) {
	next := safeNext(c.Query("next"), "/demo")
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusSeeOther, next)
		return
	}
	h.render(c, http.StatusOK, "login", h.t(c, "login.title"), gin.H{"Next": next})
}

// LoginSubmit handles POST /login
func (h *PageHandlers) LoginSubmit(c *gin.Context) {
	email := c.PostForm("email")
	next := safeNext(c.PostForm("next"), "/demo")

	token, _, err := h.app.AuthService.SignIn(c.Request.Context(), email, c.PostForm("password"))
	if err != nil {
		status := http.StatusUnauthorized
		if !errors.Is(err, user.ErrInvalidCredentials) {
			status = http.StatusInternalServerError
		}
		h.render(c, status, "login", h.t(c, "login.title"), gin.H{"Next": next, "Email": email, "Invalid": true})
		return
	}
	setAuthCookie(c, token, h.app.AuthService.TokenTTL(), h.app.Settings.CookieSecure)
	c.Redirect(http.StatusSeeOther, next)
}

// Logout handles POST /logout
func (h *PageHandlers) Logout(c *gin.Context) {
	h.app.AuthService.SignOut(middleware.CurrentUser(c))
	clearAuthCookie(c, h.app.Settings.CookieSecure)
	c.Redirect(http.StatusSeeOther, "/")
}

// DemoHub handles GET /demo
func (h *PageHandlers) DemoHub(c *gin.Context) {
	locale := middleware.Locale(c)
	snap := h.app.ProfilingService.Snapshot(c.Request.Context(), middleware.SessionID(c))
	all := h.app.Demos.All()
	cards := make([]demoCard, 0, len(all))
	for _, d := range all {
		cards = append(cards, demoCard{
			Slug:      d.Slug,
			Title:     d.TitleFor(locale),
			Viewed:    snap.HasViewed(d.Slug),
			Completed: slices.Contains(snap.DemosCompleted, d.Slug),
			Progress:  snap.DemoMaxProgress[d.Slug],
		})
	}
	h.render(c, http.StatusOK, "demo_hub", h.t(c, "demo.title"), gin.H{"Demos": cards})
}

// DemoViewer handles GET /demo/:slug, embedding the fragment in a sandboxed frame.
func (h *PageHandlers) DemoViewer(c *gin.Context) {
	d, fragment, err := h.app.Demos.Fragment(c.Param("slug"))
	if err != nil {
		if !errors.Is(err, demo.ErrNotFound) {
			h.app.Logger.System().Error("Demo fragment unreadable", "slug", c.Param("slug"), "error", err.Error())
			h.serverError(c)
			return
		}
		h.NotFound(c)
		return
	}
	h.app.ProfilingService.RecordDemoView(c.Request.Context(), middleware.SessionID(c), d.Slug)

	title := d.TitleFor(middleware.Locale(c))
	h.render(c, http.StatusOK, "demo_view", title, gin.H{
		"Slug":     d.Slug,
		"Title":    title,
		"Fragment": string(fragment),
	})
}

// Admin handles GET /admin
func (h *PageHandlers) Admin(c *gin.Context) {
	q, st := viewFromQuery(c)
	dash, err := h.app.AdminService.Submissions(c.Request.Context(), q, st)
	if err != nil {
		h.app.Logger.Leads().Error("Admin dashboard unavailable", "error", err.Error())
		h.serverError(c)
		return
	}
	h.render(c, http.StatusOK, "admin", h.t(c, "admin.title"), gin.H{
		"Submissions": dash.Submissions,
		"Stats":       dash.Stats,
		"Query":       dash.Query,
		"Sort":        dash.Sort,
		"Professions": dash.Professions,
		"SortLinks":   sortLinks(dash.Query, dash.Sort),
	})
}
