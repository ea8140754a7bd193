package lib

import (
	"context"
	"os"
	"xbs/src/types"

	"github.com/stripe/stripe-go/v82"
)

var stripeClient *stripe.Client

func GetStripeClient() *stripe.Client {
	if stripeClient != nil {
		return stripeClient
	}
	apiKey := os.Getenv("STRIPE_SECRET_KEY")
	sc := stripe.NewClient(apiKey)
	stripeClient = sc

	return sc
}

func NewStripeClient(c *stripe.Client) {
	stripeClient = c
}

// StripeProvider adapts the stripe client to types.PaymentProvider.
type StripeProvider struct{}

func NewStripeProvider() *StripeProvider {
	return &StripeProvider{}
}

func (p *StripeProvider) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*types.PaymentIntentInfo, error) {
	sc := GetStripeClient()
	params := stripe.PaymentIntentCreateParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentCreateAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	pi, err := sc.V1PaymentIntents.Create(ctx, &params)
	if err != nil {
		return nil, err
	}
	return intentInfo(pi), nil
}

func (p *StripeProvider) RetrieveIntent(ctx context.Context, id string) (*types.PaymentIntentInfo, error) {
	sc := GetStripeClient()
	pi, err := sc.V1PaymentIntents.Retrieve(ctx, id, &stripe.PaymentIntentRetrieveParams{})
	if err != nil {
		return nil, err
	}
	return intentInfo(pi), nil
}

func (p *StripeProvider) CancelIntent(ctx context.Context, id string) error {
	sc := GetStripeClient()
	_, err := sc.V1PaymentIntents.Cancel(ctx, id, &stripe.PaymentIntentCancelParams{})
	return err
}

func (p *StripeProvider) CreateRefund(ctx context.Context, intentID string, amount int64) (string, error) {
	sc := GetStripeClient()
	params := stripe.RefundCreateParams{
		PaymentIntent: stripe.String(intentID),
	}
	if amount > 0 {
		params.Amount = stripe.Int64(amount)
	}
	refund, err := sc.V1Refunds.Create(ctx, &params)
	if err != nil {
		return "", err
	}
	return refund.ID, nil
}

func intentInfo(pi *stripe.PaymentIntent) *types.PaymentIntentInfo {
	return &types.PaymentIntentInfo{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
	}
}
