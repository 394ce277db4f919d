package gameup

import "context"

const (
	googlePurchaseProduct      = "product"
	googlePurchaseSubscription = "subscription"
)

// SubscribePush registers a device token for push notifications on the
// given segments. An empty platform means iOS.
func (s *SessionClient) SubscribePush(ctx context.Context, deviceToken string, platform PushPlatform, segments []string) error {
	if platform == "" {
		platform = PushIOS
	}
	if segments == nil {
		segments = []string{}
	}

	body, err := encodeBody(struct {
		Platform    PushPlatform `json:"platform"`
		ID          string       `json:"id"`
		Multiplayer bool         `json:"multiplayer"`
		Segments    []string     `json:"segments"`
	}{platform, deviceToken, false, segments}, "segments")
	if err != nil {
		return err
	}
	return s.call(ctx, "PUT", "/v0/gamer/push/", body, nil)
}

// PurchaseVerifyApple verifies an App Store receipt for productID.
func (s *SessionClient) PurchaseVerifyApple(ctx context.Context, receipt, productID string) (*PurchaseVerification, error) {
	return s.verifyPurchase(ctx, "/v0/gamer/purchase/verify/apple", map[string]string{
		"product_id":   productID,
		"receipt_data": receipt,
	})
}

// PurchaseVerifyGoogleProduct verifies a Play Store product purchase token.
func (s *SessionClient) PurchaseVerifyGoogleProduct(ctx context.Context, token, productID string) (*PurchaseVerification, error) {
	return s.verifyGoogle(ctx, token, productID, googlePurchaseProduct)
}

// PurchaseVerifyGoogleSubscription verifies a Play Store subscription purchase token.
func (s *SessionClient) PurchaseVerifyGoogleSubscription(ctx context.Context, token, subscriptionID string) (*PurchaseVerification, error) {
	return s.verifyGoogle(ctx, token, subscriptionID, googlePurchaseSubscription)
}

func (s *SessionClient) verifyGoogle(ctx context.Context, token, productID, kind string) (*PurchaseVerification, error) {
	return s.verifyPurchase(ctx, "/v0/gamer/purchase/verify/google", map[string]string{
		"product_id":     productID,
		"purchase_token": token,
		"type":           kind,
	})
}

func (s *SessionClient) verifyPurchase(ctx context.Context, path string, fields map[string]string) (*PurchaseVerification, error) {
	body, err := encodeBody(fields, "product_id")
	if err != nil {
		return nil, err
	}

	var verification PurchaseVerification
	if err := s.call(ctx, "POST", path, body, &verification); err != nil {
		return nil, err
	}
	return &verification, nil
}
