// Package gopay is a typed client for a Stripe-compatible payments REST API.
//
// Resources are grouped into services hanging off a Client:
//
//	client, err := gopay.New(gopay.Config{APIKey: os.Getenv("GOPAY_API_KEY")})
//	if err != nil {
//		return err
//	}
//	c, err := client.Customers.Create(ctx, &gopay.CustomerParams{
//		Email: gopay.String("jenny@example.com"),
//	})
//
// Every optional request field is a pointer and is omitted from the request
// when nil. Every optional response field is a pointer and is nil when the
// API did not send it. Errors returned by the API are *APIError values;
// errors.Is(err, gopay.ErrNotFound) matches a 404.
package gopay

// Client groups the resource services. It is safe for concurrent use.
type Client struct {
	Accounts            *AccountService
	Balance             *BalanceService
	BalanceTransactions *BalanceTransactionService
	Charges             *ChargeService
	CheckoutSessions    *CheckoutSessionService
	Customers           *CustomerService
	Events              *EventService
	PaymentIntents      *PaymentIntentService
	PaymentMethods      *PaymentMethodService
	Reviews             *ReviewService
	SetupIntents        *SetupIntentService
	Subscriptions       *SubscriptionService

	backend Backend
}

// New creates a client over HTTP. When config.CircuitBreaker is set, calls
// go through a circuit breaker whose state changes are logged and recorded.
func New(config Config) (*Client, error) {
	httpBackend, err := NewHTTPBackend(config)
	if err != nil {
		return nil, err
	}
	var backend Backend = httpBackend
	if config.CircuitBreaker != nil {
		logger, metrics := httpBackend.logger, httpBackend.metric
		cb := NewDefaultCircuitBreaker(*config.CircuitBreaker, func(state CircuitBreakerState) {
			logger.Warn("circuit breaker state changed", Field{Key: "state", Value: string(state)})
			metrics.RecordCircuitBreakerStateChange(string(state))
		})
		backend = NewCircuitBreakerBackend(backend, cb)
	}
	return NewWithBackend(backend), nil
}

// NewWithBackend creates a client that sends every call through backend.
// It is mostly useful for tests and for custom transports.
func NewWithBackend(backend Backend) *Client {
	s := service{backend: backend}
	return &Client{
		Accounts:            &AccountService{s},
		Balance:             &BalanceService{s},
		BalanceTransactions: &BalanceTransactionService{s},
		Charges:             &ChargeService{s},
		CheckoutSessions:    &CheckoutSessionService{s},
		Customers:           &CustomerService{s},
		Events:              &EventService{s},
		PaymentIntents:      &PaymentIntentService{s},
		PaymentMethods:      &PaymentMethodService{s},
		Reviews:             &ReviewService{s},
		SetupIntents:        &SetupIntentService{s},
		Subscriptions:       &SubscriptionService{s},
		backend:             backend,
	}
}

// Backend returns the backend the client sends calls through.
func (c *Client) Backend() Backend { return c.backend }
