// Package types provides type definitions for structured data used throughout the content engine.
package types

import "fmt"

// ProjectStatus represents the lifecycle state of a content project.
type ProjectStatus string

// Project lifecycle states. The QA engine only ever writes StatusQAFailed and
// StatusPendingApproval; StatusApproved and StatusExported are reachable only
// through the approval and export actions.
const (
	StatusDraft           ProjectStatus = "draft"
	StatusQAFailed        ProjectStatus = "qa_failed"
	StatusPendingApproval ProjectStatus = "pending_approval"
	StatusApproved        ProjectStatus = "approved"
	StatusExported        ProjectStatus = "exported"
)

// ParseProjectStatus converts a string to a ProjectStatus, returning an error
// for unknown values.
func ParseProjectStatus(s string) (ProjectStatus, error) {
	switch ProjectStatus(s) {
	case StatusDraft, StatusQAFailed, StatusPendingApproval, StatusApproved, StatusExported:
		return ProjectStatus(s), nil
	}
	return "", fmt.Errorf("unknown project status: %q", s)
}

// Valid reports whether the status is a known lifecycle state.
func (s ProjectStatus) Valid() bool {
	_, err := ParseProjectStatus(string(s))
	return err == nil
}

// Platform represents a target distribution platform.
type Platform string

// Supported target platforms.
const (
	PlatformTikTok         Platform = "tiktok"
	PlatformInstagramReels Platform = "instagram_reels"
	PlatformFacebookReels  Platform = "facebook_reels"
	PlatformYouTubeShorts  Platform = "youtube_shorts"
)

// AllPlatforms lists every supported platform in display order.
func AllPlatforms() []Platform {
	return []Platform{PlatformTikTok, PlatformInstagramReels, PlatformFacebookReels, PlatformYouTubeShorts}
}

// ParsePlatform converts a string to a Platform, returning an error for
// unknown values.
func ParsePlatform(s string) (Platform, error) {
	switch Platform(s) {
	case PlatformTikTok, PlatformInstagramReels, PlatformFacebookReels, PlatformYouTubeShorts:
		return Platform(s), nil
	}
	return "", fmt.Errorf("unknown platform: %q", s)
}

// Valid reports whether the platform is supported.
func (p Platform) Valid() bool {
	_, err := ParsePlatform(string(p))
	return err == nil
}

// ContentType represents the editorial angle of a project.
type ContentType string

// Supported content types.
const (
	ContentEducation ContentType = "education"
	ContentProduct   ContentType = "product"
	ContentAuthority ContentType = "authority"
	ContentTrust     ContentType = "trust"
)

// Valid reports whether the content type is supported.
func (c ContentType) Valid() bool {
	switch c {
	case ContentEducation, ContentProduct, ContentAuthority, ContentTrust:
		return true
	}
	return false
}

// Market represents a target market region.
type Market string

// Supported market regions.
const (
	MarketFrance  Market = "fr"
	MarketGermany Market = "de"
	MarketGCC     Market = "gcc"
	MarketGlobal  Market = "global"
)

// Valid reports whether the market is supported.
func (m Market) Valid() bool {
	switch m {
	case MarketFrance, MarketGermany, MarketGCC, MarketGlobal:
		return true
	}
	return false
}

// HookType represents the retention strategy of a generated hook.
type HookType string

// Supported hook types.
const (
	HookCuriosity HookType = "curiosity"
	HookAuthority HookType = "authority"
	HookPainPoint HookType = "pain_point"
	HookVisual    HookType = "visual"
)

// Language represents a content language.
type Language string

// Supported content languages.
const (
	LangEnglish Language = "en"
	LangFrench  Language = "fr"
	LangGerman  Language = "de"
)

// Valid reports whether the language is supported.
func (l Language) Valid() bool {
	switch l {
	case LangEnglish, LangFrench, LangGerman:
		return true
	}
	return false
}

// Role represents an operator's permission level.
type Role string

// Operator roles. Approvers can move projects past pending_approval;
// content operators cannot.
const (
	RoleContentOperator Role = "content_operator"
	RoleApprover        Role = "approver"
)

// Valid reports whether the role is known.
func (r Role) Valid() bool {
	return r == RoleContentOperator || r == RoleApprover
}
