package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v76"
	bpsession "github.com/stripe/stripe-go/v76/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/subscription"
	"go.uber.org/zap"

	"superscooops/config"
)

// StripeGateway implements Provider against the Stripe API. The global
// stripe.Key is set once in main from configuration.
type StripeGateway struct {
	logger *zap.Logger
}

// NewStripeGateway returns the production payment provider.
func NewStripeGateway(logger *zap.Logger) *StripeGateway {
	return &StripeGateway{logger: logger}
}

func (g *StripeGateway) CreateCustomer(ctx context.Context, in CustomerInput) (string, error) {
	if config.AppConfig.StripeKey == "" {
		return "", errors.New("stripe is not configured (STRIPE_SECRET_KEY missing)")
	}
	if in.CardToken == "" {
		return "", errors.New("card token is required")
	}

	params := &stripe.CustomerParams{
		Email: stripe.String(in.Email),
		Name:  stripe.String(in.Name),
		Address: &stripe.AddressParams{
			Line1:      stripe.String(in.Billing.Street),
			City:       stripe.String(in.Billing.City),
			State:      stripe.String(in.Billing.State),
			PostalCode: stripe.String(in.Billing.Zip),
			Country:    stripe.String("US"),
		},
	}
	if in.Phone != "" {
		params.Phone = stripe.String(in.Phone)
	}
	params.Context = ctx
	params.Source = stripe.String(in.CardToken)

	cust, err := customer.New(params)
	if err != nil {
		g.logger.Error("stripe customer creation failed", zap.Error(err))
		return "", err
	}
	return cust.ID, nil
}

func (g *StripeGateway) CreateSubscription(ctx context.Context, in SubscriptionInput) (string, error) {
	if config.AppConfig.StripeKey == "" {
		return "", errors.New("stripe is not configured (STRIPE_SECRET_KEY missing)")
	}

	items, err := subscriptionItems(in)
	if err != nil {
		return "", err
	}

	params := &stripe.SubscriptionParams{
		Customer:          stripe.String(in.CustomerID),
		Items:             items,
		ProrationBehavior: stripe.String("none"),
	}
	params.Context = ctx

	if anchor, ok := nextWeekday(time.Now(), in.AnchorDay); ok {
		params.BillingCycleAnchor = stripe.Int64(anchor.Unix())
	}
	if in.ApplyPromo && config.AppConfig.StripeFirstCleanupCoupon != "" {
		params.Coupon = stripe.String(config.AppConfig.StripeFirstCleanupCoupon)
	}

	sub, err := subscription.New(params)
	if err != nil {
		g.logger.Error("stripe subscription creation failed",
			zap.String("customer", in.CustomerID), zap.Error(err))
		return "", err
	}
	return sub.ID, nil
}

func (g *StripeGateway) AttachCRMClient(ctx context.Context, customerID, clientID string) error {
	params := &stripe.CustomerParams{}
	params.Context = ctx
	params.AddMetadata("sweep_client_id", clientID)
	_, err := customer.Update(customerID, params)
	return err
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, in CheckoutInput) (string, error) {
	if config.AppConfig.StripeKey == "" {
		return "", errors.New("stripe is not configured (STRIPE_SECRET_KEY missing)")
	}

	basePriceID := config.StripePriceID(in.PlanID)
	if basePriceID == "" {
		return "", fmt.Errorf("missing price id for plan: %s", in.PlanID)
	}
	lineItems := []*stripe.CheckoutSessionLineItemParams{
		{Price: stripe.String(basePriceID), Quantity: stripe.Int64(1)},
	}
	if in.Dogs > 1 {
		extraDogPriceID := config.StripePriceID("extra-dog")
		if extraDogPriceID == "" {
			return "", errors.New("missing price id for extra dog")
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Price:    stripe.String(extraDogPriceID),
			Quantity: stripe.Int64(in.Dogs - 1),
		})
	}
	if in.DeodorizerID != "" {
		deodorizerPriceID := config.StripePriceID(in.DeodorizerID)
		if deodorizerPriceID == "" {
			return "", fmt.Errorf("missing price id for deodorizer (%s)", in.DeodorizerID)
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Price:    stripe.String(deodorizerPriceID),
			Quantity: stripe.Int64(1),
		})
	}

	baseURL := config.AppConfig.SiteBaseURL
	params := &stripe.CheckoutSessionParams{
		CustomerEmail:      stripe.String(in.Email),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(baseURL + "/success.html"),
		CancelURL:          stripe.String(baseURL + "/cancel.html"),
		Metadata: map[string]string{
			"address": in.Address,
			"name":    in.Name,
			"planId":  in.PlanID,
			"dogs":    fmt.Sprintf("%d", in.Dogs),
		},
	}
	params.Context = ctx

	sess, err := checkoutsession.New(params)
	if err != nil {
		g.logger.Error("stripe checkout session create failed", zap.Error(err))
		return "", err
	}
	return sess.URL, nil
}

func (g *StripeGateway) CreatePortalSession(ctx context.Context, email, returnURL string) (string, error) {
	if config.AppConfig.StripeKey == "" {
		return "", errors.New("stripe is not configured (STRIPE_SECRET_KEY missing)")
	}

	listParams := &stripe.CustomerListParams{Email: stripe.String(email)}
	listParams.Context = ctx
	listParams.Limit = stripe.Int64(1)
	iter := customer.List(listParams)

	var custID string
	for iter.Next() {
		custID = iter.Customer().ID
		break
	}
	if err := iter.Err(); err != nil {
		return "", err
	}
	if custID == "" {
		return "", ErrNoCustomer
	}

	if returnURL == "" {
		returnURL = config.AppConfig.SiteBaseURL + "/manage-billing.html"
	}
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(custID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx

	sess, err := bpsession.New(params)
	if err != nil {
		g.logger.Error("stripe billing portal session failed", zap.Error(err))
		return "", err
	}
	return sess.URL, nil
}

// subscriptionItems builds the line items {base plan, extra dogs,
// deodorizer} from configured price ids.
func subscriptionItems(in SubscriptionInput) ([]*stripe.SubscriptionItemsParams, error) {
	basePriceID := config.StripePriceID(in.PlanID)
	if basePriceID == "" {
		return nil, fmt.Errorf("missing price id for plan: %s", in.PlanID)
	}
	items := []*stripe.SubscriptionItemsParams{
		{Price: stripe.String(basePriceID), Quantity: stripe.Int64(1)},
	}
	if in.ExtraDogs > 0 {
		extraDogPriceID := config.StripePriceID("extra-dog")
		if extraDogPriceID == "" {
			return nil, errors.New("missing price id for extra dog")
		}
		items = append(items, &stripe.SubscriptionItemsParams{
			Price:    stripe.String(extraDogPriceID),
			Quantity: stripe.Int64(in.ExtraDogs),
		})
	}
	if in.DeodorizerID != "" {
		deodorizerPriceID := config.StripePriceID(in.DeodorizerID)
		if deodorizerPriceID == "" {
			return nil, fmt.Errorf("missing price id for deodorizer (%s)", in.DeodorizerID)
		}
		items = append(items, &stripe.SubscriptionItemsParams{
			Price:    stripe.String(deodorizerPriceID),
			Quantity: stripe.Int64(1),
		})
	}
	return items, nil
}

// nextWeekday returns the next occurrence of the named weekday, strictly
// after now, at midnight UTC. Unknown names report false and leave the
// anchor at the provider default.
func nextWeekday(now time.Time, day string) (time.Time, bool) {
	target, ok := weekdays[day]
	if !ok {
		return time.Time{}, false
	}
	now = now.UTC()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 7; i++ {
		date = date.AddDate(0, 0, 1)
		if date.Weekday() == target {
			return date, true
		}
	}
	return time.Time{}, false
}

var weekdays = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}
