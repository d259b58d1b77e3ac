// Package fetch - platform.go provides shop platform detection and
// platform-specific selectors.
package fetch

import (
	"net/url"
	"strings"
)

// ShopPlatform represents a known e-commerce platform.
type ShopPlatform string

const (
	// ShopShopify is the Shopify platform
	ShopShopify ShopPlatform = "shopify"
	// ShopWooCommerce is the WooCommerce platform
	ShopWooCommerce ShopPlatform = "woocommerce"
	// ShopMagento is the Magento platform
	ShopMagento ShopPlatform = "magento"
	// ShopUnknown is an unrecognized platform
	ShopUnknown ShopPlatform = "unknown"
)

// DetectShopPlatform identifies the e-commerce platform from a URL or its HTML.
// Host patterns are checked first; HTML markers cover self-hosted shops.
func DetectShopPlatform(urlStr, html string) ShopPlatform {
	parsed, err := url.Parse(urlStr)
	if err == nil {
		host := strings.ToLower(parsed.Host)
		if strings.Contains(host, "myshopify.com") {
			return ShopShopify
		}
	}

	lower := strings.ToLower(html)
	switch {
	case strings.Contains(lower, "cdn.shopify.com") || strings.Contains(lower, "shopify.theme"):
		return ShopShopify
	case strings.Contains(lower, "woocommerce"):
		return ShopWooCommerce
	case strings.Contains(lower, "magento"):
		return ShopMagento
	}

	return ShopUnknown
}

// PlatformContentSelectors returns content selectors optimized for a specific platform.
func PlatformContentSelectors(platform ShopPlatform) []string {
	switch platform {
	case ShopShopify:
		return []string{
			".product__description",
			".product-single__description",
			".product__info-wrapper",
			".product-description",
			"main",
		}
	case ShopWooCommerce:
		return []string{
			".woocommerce-product-details__short-description",
			".woocommerce-Tabs-panel--description",
			".product .summary",
			".entry-content",
		}
	case ShopMagento:
		return []string{
			".product.attribute.description",
			".product-info-main",
			".product.info.detailed",
			"#maincontent",
		}
	default:
		return ProductPageSelectors()
	}
}

// PlatformNoiseSelectors returns noise exclusion selectors for a specific platform.
func PlatformNoiseSelectors(platform ShopPlatform) []string {
	// Common noise selectors for all platforms
	common := []string{
		// Purchase UI
		"form",
		".add-to-cart",
		".cart-drawer",
		".quantity-selector",
		".payment-icons",

		// Cross-sell and reviews
		".related-products",
		".recommendations",
		".upsell",
		".reviews",
		".judgeme-widget",

		// Cookie and GDPR
		".cookie-banner",
		".cookie-consent",
		".gdpr-notice",

		// Newsletter prompts
		".newsletter-signup",
		".newsletter-popup",
	}

	switch platform {
	case ShopShopify:
		return append(common,
			".shopify-payment-button",
			".product-form",
			".cart-notification",
		)
	case ShopWooCommerce:
		return append(common,
			".woocommerce-tabs .reviews_tab",
			".cart-form",
			".woocommerce-breadcrumb",
		)
	case ShopMagento:
		return append(common,
			".box-tocart",
			".product-social-links",
			".block.related",
		)
	default:
		return common
	}
}
