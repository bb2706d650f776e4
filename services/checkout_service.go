package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"bartr_server/models"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
)

// CreditsPerMajorUnit is the purchase rate: ten major currency units buy one
// credit.
const CreditsPerMajorUnit = 10

// CheckoutService drives credit top-ups through the payments processor.
type CheckoutService struct {
	Dynamo   DynamoAPI
	Profiles *UserProfileService
	Currency string
}

// VerifyResult is the outcome of a checkout verification.
type VerifyResult struct {
	Status           string `json:"status"`
	CustomerEmail    string `json:"customerEmail,omitempty"`
	Amount           int64  `json:"amount,omitempty"`
	CreditsEarned    int    `json:"creditsEarned"`
	AlreadyProcessed bool   `json:"alreadyProcessed,omitempty"`
}

// CreditsForAmount converts a checkout total in minor currency units into
// credits: minor units → major units, then one credit per ten major units.
func CreditsForAmount(amountTotal int64) int {
	return int(amountTotal / 100 / CreditsPerMajorUnit)
}

// CreateSession opens a checkout session for purchasing amount major
// currency units of credit and returns its hosted payment URL.
func (s *CheckoutService) CreateSession(ctx context.Context, userID string, amount int64, origin string) (string, error) {
	if amount <= 0 {
		return "", fmt.Errorf("%w: amount must be positive", ErrEmptyContent)
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(s.Currency),
					UnitAmount: stripe.Int64(amount * 100),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Bartr credits"),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(origin + "/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(origin + "/credits-store?canceled=true"),
		Metadata:   map[string]string{"userId": userID},
	}
	params.Context = ctx

	checkoutSession, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	log.Printf("🧾 Created checkout session %s for user %s (%d %s)", checkoutSession.ID, userID, amount, s.Currency)
	return checkoutSession.URL, nil
}

// VerifySession checks a session's status and, on the first verification of
// a completed session, grants the purchased credits. The grant record's
// conditional put makes repeat verifications observe-only.
func (s *CheckoutService) VerifySession(ctx context.Context, userID, sessionID string) (*VerifyResult, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	checkoutSession, err := session.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve checkout session: %w", err)
	}

	result := &VerifyResult{Status: string(checkoutSession.Status)}
	if checkoutSession.Status != stripe.CheckoutSessionStatusComplete {
		return result, nil
	}

	if checkoutSession.CustomerDetails != nil {
		result.CustomerEmail = checkoutSession.CustomerDetails.Email
	}
	result.Amount = checkoutSession.AmountTotal / 100
	result.CreditsEarned = CreditsForAmount(checkoutSession.AmountTotal)
	if result.CreditsEarned == 0 {
		return result, nil
	}

	grant := models.CreditGrant{
		SessionID: sessionID,
		UserID:    userID,
		Credits:   result.CreditsEarned,
		GrantedAt: time.Now().UTC().Format(time.RFC3339),
	}
	err = s.Dynamo.PutItemWithCondition(ctx, models.CreditGrantsTable, grant, "attribute_not_exists(sessionId)")
	if err != nil {
		if IsConditionalCheckFailed(err) {
			log.Printf("ℹ️ Session %s already credited, skipping grant", sessionID)
			result.AlreadyProcessed = true
			return result, nil
		}
		return nil, fmt.Errorf("failed to record credit grant: %w", err)
	}

	if err := s.Profiles.AddCredits(ctx, userID, result.CreditsEarned); err != nil {
		return nil, err
	}

	log.Printf("✅ Granted %d credits to %s for session %s", result.CreditsEarned, userID, sessionID)
	return result, nil
}
