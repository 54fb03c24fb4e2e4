// Package upstream is the typed HTTP client for the exam-platform REST API,
// the gateway's only source of entity data. The caller's bearer token rides
// the request context and is forwarded on every call; the gateway holds no
// credentials of its own.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sahajlabs/exam-admin-gateway/internal/dto"
	"github.com/sahajlabs/exam-admin-gateway/internal/models"
	"github.com/sahajlabs/exam-admin-gateway/pkg/config"
	appErrors "github.com/sahajlabs/exam-admin-gateway/pkg/errors"
	"github.com/sahajlabs/exam-admin-gateway/pkg/middleware/requestid"
)

// Collection paths as the platform actually serves them. The exams and
// subscriptions routers are mounted under a prefix that repeats the router's
// own prefix, so those two paths double up; that is the live wire format,
// not a typo.
const (
	pathClasses       = "/classes/"
	pathStreams       = "/streams/"
	pathSubjects      = "/subjects/"
	pathChapters      = "/chapters/"
	pathTopics        = "/topics/"
	pathCourses       = "/courses/"
	pathExams         = "/exams/exams/"
	pathPackages      = "/packages/"
	pathSubscriptions = "/subscriptions/subscriptions/"
	pathMappings      = "/subscription-packages/"
	pathOverview      = "/reports/subscriptions/overview"
	pathDashboard     = "/reports/dashboard"
)

type tokenKey struct{}

// WithToken stores the caller's bearer token for forwarding upstream.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the bearer token stored by WithToken.
func TokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(tokenKey{}).(string); ok {
		return token
	}
	return ""
}

// Recorder receives timing for every upstream call. The metrics service
// implements it; a nil recorder disables instrumentation.
type Recorder interface {
	ObserveUpstreamRequest(method, path string, status int, duration time.Duration)
}

// Client talks to the exam-platform API.
type Client struct {
	baseURL  string
	http     *http.Client
	pageSize int
	logger   *zap.Logger
	recorder Recorder
}

// NewClient builds a Client from upstream configuration.
func NewClient(cfg config.UpstreamConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 100
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		http:     &http.Client{Timeout: cfg.Timeout},
		pageSize: pageSize,
		logger:   logger,
	}
}

// SetRecorder attaches call instrumentation.
func (c *Client) SetRecorder(r Recorder) {
	c.recorder = r
}

// Healthy probes the upstream with a minimal request.
func (c *Client) Healthy(ctx context.Context) error {
	query := url.Values{}
	query.Set("skip", "0")
	query.Set("limit", "1")
	var out []models.Class
	return c.do(ctx, http.MethodGet, pathClasses, query, nil, &out)
}

// Classes drains the class collection.
func (c *Client) Classes(ctx context.Context) ([]models.Class, error) {
	return fetchAll[models.Class](ctx, c, pathClasses)
}

// Streams drains the stream collection.
func (c *Client) Streams(ctx context.Context) ([]models.Stream, error) {
	return fetchAll[models.Stream](ctx, c, pathStreams)
}

// Subjects drains the subject collection.
func (c *Client) Subjects(ctx context.Context) ([]models.Subject, error) {
	return fetchAll[models.Subject](ctx, c, pathSubjects)
}

// Chapters drains the chapter collection.
func (c *Client) Chapters(ctx context.Context) ([]models.Chapter, error) {
	return fetchAll[models.Chapter](ctx, c, pathChapters)
}

// Topics drains the topic collection.
func (c *Client) Topics(ctx context.Context) ([]models.Topic, error) {
	return fetchAll[models.Topic](ctx, c, pathTopics)
}

// Courses drains the course collection.
func (c *Client) Courses(ctx context.Context) ([]models.Course, error) {
	return fetchAll[models.Course](ctx, c, pathCourses)
}

// Exams drains the exam collection.
func (c *Client) Exams(ctx context.Context) ([]models.Exam, error) {
	return fetchAll[models.Exam](ctx, c, pathExams)
}

// Packages drains the package collection.
func (c *Client) Packages(ctx context.Context) ([]models.Package, error) {
	return fetchAll[models.Package](ctx, c, pathPackages)
}

// Subscriptions drains the subscription collection.
func (c *Client) Subscriptions(ctx context.Context) ([]models.Subscription, error) {
	return fetchAll[models.Subscription](ctx, c, pathSubscriptions)
}

// SubscriptionPackages drains the raw mapping rows, legacy shapes included.
func (c *Client) SubscriptionPackages(ctx context.Context) ([]models.SubscriptionPackageRow, error) {
	return fetchAll[models.SubscriptionPackageRow](ctx, c, pathMappings)
}

func (c *Client) CreateClass(ctx context.Context, req dto.CreateClassRequest) (*models.Class, error) {
	return createEntity[models.Class](ctx, c, pathClasses, req)
}

func (c *Client) UpdateClass(ctx context.Context, id int64, req dto.UpdateClassRequest) (*models.Class, error) {
	return updateEntity[models.Class](ctx, c, pathClasses, id, req)
}

func (c *Client) DeleteClass(ctx context.Context, id int64) error {
	return c.deleteEntity(ctx, pathClasses, id)
}

func (c *Client) CreateStream(ctx context.Context, req dto.CreateStreamRequest) (*models.Stream, error) {
	return createEntity[models.Stream](ctx, c, pathStreams, req)
}

func (c *Client) UpdateStream(ctx context.Context, id int64, req dto.UpdateStreamRequest) (*models.Stream, error) {
	return updateEntity[models.Stream](ctx, c, pathStreams, id, req)
}

func (c *Client) DeleteStream(ctx context.Context, id int64) error {
	return c.deleteEntity(ctx, pathStreams, id)
}

func (c *Client) CreateSubject(ctx context.Context, req dto.CreateSubjectRequest) (*models.Subject, error) {
	return createEntity[models.Subject](ctx, c, pathSubjects, req)
}

func (c *Client) UpdateSubject(ctx context.Context, id int64, req dto.UpdateSubjectRequest) (*models.Subject, error) {
	return updateEntity[models.Subject](ctx, c, pathSubjects, id, req)
}

func (c *Client) DeleteSubject(ctx context.Context, id int64) error {
	return c.deleteEntity(ctx, pathSubjects, id)
}

func (c *Client) CreateChapter(ctx context.Context, req dto.CreateChapterRequest) (*models.Chapter, error) {
	return createEntity[models.Chapter](ctx, c, pathChapters, req)
}

func (c *Client) UpdateChapter(ctx context.Context, id int64, req dto.UpdateChapterRequest) (*models.Chapter, error) {
	return updateEntity[models.Chapter](ctx, c, pathChapters, id, req)
}

func (c *Client) DeleteChapter(ctx context.Context, id int64) error {
	return c.deleteEntity(ctx, pathChapters, id)
}

func (c *Client) CreateTopic(ctx context.Context, req dto.CreateTopicRequest) (*models.Topic, error) {
	return createEntity[models.Topic](ctx, c, pathTopics, req)
}

func (c *Client) UpdateTopic(ctx context.Context, id int64, req dto.UpdateTopicRequest) (*models.Topic, error) {
	return updateEntity[models.Topic](ctx, c, pathTopics, id, req)
}

func (c *Client) DeleteTopic(ctx context.Context, id int64) error {
	return c.deleteEntity(ctx, pathTopics, id)
}

func (c *Client) CreateExam(ctx context.Context, req dto.CreateExamRequest) (*models.Exam, error) {
	return createEntity[models.Exam](ctx, c, pathExams, req)
}

func (c *Client) UpdateExam(ctx context.Context, id int64, req dto.UpdateExamRequest) (*models.Exam, error) {
	return updateEntity[models.Exam](ctx, c, pathExams, id, req)
}

func (c *Client) DeleteExam(ctx context.Context, id int64) error {
	return c.deleteEntity(ctx, pathExams, id)
}

func (c *Client) CreatePackage(ctx context.Context, req dto.CreatePackageRequest) (*models.Package, error) {
	return createEntity[models.Package](ctx, c, pathPackages, req)
}

func (c *Client) UpdatePackage(ctx context.Context, id int64, req dto.UpdatePackageRequest) (*models.Package, error) {
	return updateEntity[models.Package](ctx, c, pathPackages, id, req)
}

func (c *Client) DeletePackage(ctx context.Context, id int64) error {
	return c.deleteEntity(ctx, pathPackages, id)
}

func (c *Client) CreateSubscription(ctx context.Context, req dto.CreateSubscriptionRequest) (*models.Subscription, error) {
	return createEntity[models.Subscription](ctx, c, pathSubscriptions, req)
}

func (c *Client) UpdateSubscription(ctx context.Context, id int64, req dto.UpdateSubscriptionRequest) (*models.Subscription, error) {
	return updateEntity[models.Subscription](ctx, c, pathSubscriptions, id, req)
}

func (c *Client) DeleteSubscription(ctx context.Context, id int64) error {
	return c.deleteEntity(ctx, pathSubscriptions, id)
}

// BulkCreateMapping creates or overwrites the single mapping row for a
// subscription. The upstream upserts: an existing row for the subscription
// gets its package set replaced.
func (c *Client) BulkCreateMapping(ctx context.Context, req dto.CreateMappingRequest) (*models.SubscriptionPackageRow, error) {
	var out models.SubscriptionPackageRow
	if err := c.do(ctx, http.MethodPost, pathMappings+"bulk", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMappingsBySubscription removes every mapping row for a subscription.
func (c *Client) DeleteMappingsBySubscription(ctx context.Context, subscriptionID int64) error {
	path := pathMappings + "subscription/" + strconv.FormatInt(subscriptionID, 10)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// SubscriptionOverview fetches subscription statistics for a period.
func (c *Client) SubscriptionOverview(ctx context.Context, period string, subscriptionID int64) (*models.SubscriptionOverview, error) {
	query := url.Values{}
	if period != "" {
		query.Set("time_period", period)
	}
	if subscriptionID > 0 {
		query.Set("subscription_id", strconv.FormatInt(subscriptionID, 10))
	}
	var out models.SubscriptionOverview
	if err := c.do(ctx, http.MethodGet, pathOverview, query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Dashboard fetches the administrative dashboard summary.
func (c *Client) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	var out models.DashboardStats
	if err := c.do(ctx, http.MethodGet, pathDashboard, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func createEntity[T any](ctx context.Context, c *Client, path string, body interface{}) (*T, error) {
	var out T
	if err := c.do(ctx, http.MethodPost, path, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func updateEntity[T any](ctx context.Context, c *Client, path string, id int64, body interface{}) (*T, error) {
	var out T
	if err := c.do(ctx, http.MethodPut, entityPath(path, id), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) deleteEntity(ctx context.Context, path string, id int64) error {
	return c.do(ctx, http.MethodDelete, entityPath(path, id), nil, nil, nil)
}

func entityPath(base string, id int64) string {
	return base + strconv.FormatInt(id, 10)
}

// fetchAll drains a paged collection. The upstream caps limit at 100 and
// signals the final page by returning fewer rows than requested.
func fetchAll[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var all []T
	skip := 0
	for {
		query := url.Values{}
		query.Set("skip", strconv.Itoa(skip))
		query.Set("limit", strconv.Itoa(c.pageSize))

		var page []T
		if err := c.do(ctx, http.MethodGet, path, query, nil, &page); err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < c.pageSize {
			return all, nil
		}
		skip += len(page)
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode upstream payload")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build upstream request")
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if reqID := requestid.FromContext(ctx); reqID != "" {
		req.Header.Set("X-Request-ID", reqID)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(method, path, 0, time.Since(start))
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "upstream request failed")
	}
	defer resp.Body.Close()
	c.observe(method, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= http.StatusBadRequest {
		return c.errorFromResponse(method, path, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to decode upstream response")
	}
	return nil
}

func (c *Client) observe(method, path string, status int, elapsed time.Duration) {
	if c.recorder == nil {
		return
	}
	c.recorder.ObserveUpstreamRequest(method, metricPath(path), status, elapsed)
}

// metricPath collapses per-entity URLs onto their collection so the path
// label stays low-cardinality.
func metricPath(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 && i < len(path)-1 {
		if _, err := strconv.ParseInt(path[i+1:], 10, 64); err == nil {
			return path[:i+1]
		}
	}
	return path
}

func (c *Client) errorFromResponse(method, path string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	detail := detailMessage(raw)

	c.logger.Warn("upstream error",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("detail", detail),
	)
	return appErrors.FromUpstreamStatus(resp.StatusCode, detail)
}

// detailMessage extracts the platform's error text. FastAPI sends
// {"detail": "..."} for handled errors and {"detail": [{loc, msg, ...}]}
// for validation failures.
func detailMessage(raw []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Detail) == 0 {
		return strings.TrimSpace(string(raw))
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return text
	}

	var items []struct {
		Loc []interface{} `json:"loc"`
		Msg string        `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil && len(items) > 0 {
		parts := make([]string, 0, len(items))
		for _, item := range items {
			if len(item.Loc) > 0 {
				parts = append(parts, fmt.Sprintf("%v: %s", item.Loc[len(item.Loc)-1], item.Msg))
			} else {
				parts = append(parts, item.Msg)
			}
		}
		return strings.Join(parts, "; ")
	}

	return strings.TrimSpace(string(envelope.Detail))
}
