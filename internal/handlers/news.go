package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"bridgeway_site_echo/internal/news"
)

// maxAPILimit caps the limit parameter of the news API
const maxAPILimit = 50

type NewsHandler struct {
	news ArticleLister
}

func NewNewsHandler(articles ArticleLister) *NewsHandler {
	return &NewsHandler{news: articles}
}

// NewsResponse is the JSON body of GET /api/news
type NewsResponse struct {
	Articles []news.Article `json:"articles"`
	Topics   []string       `json:"topics"`
	Topic    string         `json:"topic,omitempty"`
}

// Page renders the news listing, optionally filtered by ?topic=
func (h *NewsHandler) Page(c echo.Context) error {
	ctx := c.Request().Context()
	topic := topicParam(c)

	articles, topics := h.news.Listing(ctx, news.Filter{Topic: topic})
	data := NewsData{
		Articles: articles,
		Topics:   topics,
		Topic:    topic,
	}
	return c.Render(http.StatusOK, "news.html", page(c, "news.title", data))
}

// API returns articles as JSON. Supports ?topic= and ?limit=.
func (h *NewsHandler) API(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		limit = min(n, maxAPILimit)
	}

	ctx := c.Request().Context()
	topic := topicParam(c)
	articles, topics := h.news.Listing(ctx, news.Filter{Topic: topic, Limit: limit})
	return c.JSON(http.StatusOK, NewsResponse{
		Articles: articles,
		Topics:   topics,
		Topic:    topic,
	})
}

// topicParam normalizes ?topic=, mapping "all" to no filter
func topicParam(c echo.Context) string {
	topic := news.NormalizeTopic(c.QueryParam("topic"))
	if topic == news.TopicAll {
		return ""
	}
	return topic
}
