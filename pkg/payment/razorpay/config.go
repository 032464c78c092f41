package razorpay

import "time"

// Config holds Razorpay API credentials and connection settings.
type Config struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Currency  string
	Timeout   time.Duration
}

// DefaultConfig returns a config pointed at the production API.
func DefaultConfig(keyID, keySecret string) Config {
	return Config{
		KeyID:     keyID,
		KeySecret: keySecret,
		BaseURL:   "https://api.razorpay.com/v1",
		Currency:  "INR",
		Timeout:   10 * time.Second,
	}
}
