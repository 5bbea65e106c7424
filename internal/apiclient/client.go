// Package apiclient реализует HTTP-клиент портала для шлюза доступа
// и потока сверки платежа. Клиент берет токен из хранилища сеанса
// и переводит статусы ответов в сигнальные ошибки.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/magabrotheeeer/finconnect-portal/internal/models"
	"github.com/magabrotheeeer/finconnect-portal/internal/session"
)

// Сигнальные ошибки клиента. Шлюз доступа и поток сверки различают
// классы отказов только по ним, не по кодам статусов.
var (
	// ErrNoToken — в хранилище сеанса нет токена, запрос не отправлялся.
	ErrNoToken = errors.New("no session token")
	// ErrUnauthorized — сервер отверг токен (401).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden — доступ запрещен (403).
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound — запись отсутствует (404).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — повторное создание уже существующей записи (400).
	ErrAlreadyExists = errors.New("already exists")
)

// Client HTTP-клиент API портала.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    session.Store
}

// NewClient создает клиента API портала поверх хранилища сеанса.
func NewClient(baseURL string, store session.Store) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		session:    store,
	}
}

// loginResponse — конверт ответа на register/login.
type loginResponse struct {
	Status string `json:"status"`
	Data   struct {
		Token string           `json:"token"`
		User  *models.Identity `json:"user"`
	} `json:"data"`
}

// Login выполняет вход и сохраняет выданный токен в хранилище сеанса.
func (c *Client) Login(ctx context.Context, username, password string) (*models.Identity, error) {
	const op = "apiclient.Login"

	body, err := json.Marshal(models.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %w", op, statusError(resp.StatusCode))
	}

	var parsed loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.session.SetToken(parsed.Data.Token)
	return parsed.Data.User, nil
}

// Me возвращает личность текущего пользователя по токену.
func (c *Client) Me(ctx context.Context) (*models.Identity, error) {
	var identity models.Identity
	if err := c.do(ctx, http.MethodGet, "/api/v1/user", nil, nil, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// ActiveSubscription возвращает активную подписку текущего пользователя.
// Возвращает ErrNotFound или ErrForbidden, если активной подписки нет.
func (c *Client) ActiveSubscription(ctx context.Context) (*models.Subscription, error) {
	var sub models.Subscription
	if err := c.do(ctx, http.MethodGet, "/api/v1/subscriptions/active", nil, nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Subscribe оформляет подписку на тариф. Повторное оформление возвращает
// ErrAlreadyExists, вызывающий код решает, считать ли это ошибкой.
func (c *Client) Subscribe(ctx context.Context, plan string) (*models.Subscription, error) {
	var sub models.Subscription
	err := c.do(ctx, http.MethodPost, "/api/v1/subscriptions/subscribe",
		models.SubscribeRequest{Plan: plan}, nil, &sub)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// CancelSubscription отменяет активную подписку.
func (c *Client) CancelSubscription(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/v1/subscriptions/cancel", nil, nil, nil)
}

// CreatePaymentIntent создает платежное намерение для оплаты тарифа.
func (c *Client) CreatePaymentIntent(ctx context.Context, planID string) (*models.CreateIntentResponse, error) {
	var result models.CreateIntentResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/billing/intents",
		models.CreateIntentRequest{PlanID: planID}, nil, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// PaymentIntentStatus возвращает статус платежного намерения.
func (c *Client) PaymentIntentStatus(ctx context.Context, providerID string) (*models.PaymentStatus, error) {
	var status models.PaymentStatus
	query := url.Values{"payment_intent": {providerID}}
	if err := c.do(ctx, http.MethodGet, "/api/v1/billing/intents/status", nil, query, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// do выполняет аутентифицированный запрос. Отсутствие токена возвращает
// ErrNoToken без обращения к сети.
func (c *Client) do(ctx context.Context, method, path string, body any, query url.Values, out any) error {
	const op = "apiclient.do"

	token, ok := c.session.Token()
	if !ok {
		return fmt.Errorf("%s: %w", op, ErrNoToken)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: %w", op, statusError(resp.StatusCode))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// statusError переводит код статуса HTTP в сигнальную ошибку клиента.
func statusError(code int) error {
	switch code {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		return ErrAlreadyExists
	default:
		return fmt.Errorf("unexpected status code %d", code)
	}
}
