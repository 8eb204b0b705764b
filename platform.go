package shoplens

import (
	"net/url"
	"slices"
	"strings"
	"time"
)

// Platform tags the site layout family a URL belongs to. Platform
// differences are configuration data consumed by one generic pipeline, not
// per-platform code paths.
type Platform string

// Supported platforms.
const (
	PlatformAmazon   Platform = "amazon"
	PlatformFlipkart Platform = "flipkart"
	PlatformMyntra   Platform = "myntra"
	PlatformSnapdeal Platform = "snapdeal"
)

// PlatformConfig parameterizes the generic algorithms: which selectors to
// try first for the delivery protocol, which markers identify the
// platform's blocking challenge, and which intrusive prompts to dismiss.
type PlatformConfig struct {
	// Hosts are hostname substrings that map a URL to this platform.
	Hosts []string

	// DeliveryInputSelectors locate the location-code input, tried in order
	// before the generic scored finder takes over.
	DeliveryInputSelectors []string

	// DeliverySubmitSelectors locate the control that submits the code.
	// When none match, the protocol presses Enter on the input.
	DeliverySubmitSelectors []string

	// DeliveryResultSelectors locate the availability/date/charge text
	// after submission.
	DeliveryResultSelectors []string

	// ObstacleSelectors match platform-specific intrusive prompts (login
	// modals, newsletter popups) whose dismiss affordance should be clicked.
	ObstacleSelectors []string

	// ChallengeMarkers are text fragments that identify the platform's
	// bot-verification interstitial.
	ChallengeMarkers []string

	// VariantSettle is how long the page gets to re-render after a variant
	// control is activated.
	VariantSettle time.Duration
}

var platformConfigs = map[Platform]PlatformConfig{
	PlatformAmazon: {
		Hosts: []string{"amazon.", "amzn."},
		DeliveryInputSelectors: []string{
			"#GLUXZipUpdateInput",
			"input[data-action='GLUXPostalInputAction']",
			"#glow-ingress-block input",
		},
		DeliverySubmitSelectors: []string{
			"#GLUXZipUpdate input[type='submit']",
			"#GLUXZipUpdate .a-button-input",
		},
		DeliveryResultSelectors: []string{
			"#mir-layout-DELIVERY_BLOCK",
			"#deliveryBlockMessage",
			"#contextualIngressPtLabel_deliveryShortLine",
		},
		ObstacleSelectors: []string{
			"input[data-action-type='DISMISS']",
			"#sp-cc-rejectall-link",
		},
		ChallengeMarkers: []string{
			"Enter the characters you see below",
			"Type the characters you see in this image",
			"api-services-support@amazon.com",
		},
		VariantSettle: 1500 * time.Millisecond,
	},
	PlatformFlipkart: {
		Hosts: []string{"flipkart.com"},
		DeliveryInputSelectors: []string{
			"input[placeholder='Enter Delivery Pincode']",
			"#pincodeInputId",
			"input._36yFo0",
		},
		DeliverySubmitSelectors: []string{
			"span._2P_LDn",
			"button._2KpZ6l",
		},
		DeliveryResultSelectors: []string{
			"div._3XINqE",
			"div._1TPvTK",
		},
		ObstacleSelectors: []string{
			"button._2KpZ6l._2doB4z", // login modal close
			"span._30XB9F",
		},
		ChallengeMarkers: []string{
			"Are you a human",
			"Please verify you are a human",
		},
		VariantSettle: 1200 * time.Millisecond,
	},
	PlatformMyntra: {
		Hosts: []string{"myntra.com"},
		DeliveryInputSelectors: []string{
			"input.pincode-code",
			"input[placeholder='Enter a PIN code']",
		},
		DeliverySubmitSelectors: []string{
			".pincode-check",
			".pincode-checkButton",
		},
		DeliveryResultSelectors: []string{
			".pincode-serviceabilityMessageContainer",
			".delivery-options",
		},
		ObstacleSelectors: []string{
			".desktop-optOutButton",
		},
		VariantSettle: 1200 * time.Millisecond,
	},
	PlatformSnapdeal: {
		Hosts: []string{"snapdeal.com"},
		DeliveryInputSelectors: []string{
			"#pincode-check",
			"input[name='pincode']",
		},
		DeliverySubmitSelectors: []string{
			".pincode-check-btn",
			"#pincode-check-button",
		},
		DeliveryResultSelectors: []string{
			".delivery-details",
			"#delivery-msg",
		},
		VariantSettle: time.Second,
	},
}

// DetectPlatform maps a URL to its platform tag. Returns EUNSUPPORTED when
// the host matches no known platform and EINVALID when the URL itself is
// unusable. Detection is purely lexical: no network work happens here.
func DetectPlatform(rawURL string) (Platform, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", Errorf(EINVALID, "not an absolute http(s) URL: %q", rawURL)
	}
	host := strings.ToLower(u.Hostname())
	for platform, cfg := range platformConfigs {
		for _, h := range cfg.Hosts {
			if strings.Contains(host, h) {
				return platform, nil
			}
		}
	}
	return "", Errorf(EUNSUPPORTED, "no supported platform matches host %q", host)
}

// Config returns the platform's parameter table. Unknown platforms get a
// zero config: every generic fallback still applies.
func (p Platform) Config() PlatformConfig {
	return platformConfigs[p]
}

// Platforms lists the supported platform tags in stable order.
func Platforms() []Platform {
	out := make([]Platform, 0, len(platformConfigs))
	for p := range platformConfigs {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}
