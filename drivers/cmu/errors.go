package cmu

import "clocktree-go/errcode"

// Sentinel errors (TinyGo-safe; no fmt). Compare with errors.Is; map to a
// stable code with errcode.Of.
var (
	ErrSuperDriveNotHigh   = errcode.New(errcode.InvalidConfig, "xtal", "super drive requires high drive")
	ErrResetNeedsResetMode = errcode.New(errcode.InvalidConfig, "xtalstd", "reset enable requires reset mode")
	ErrInvalidDrive        = errcode.New(errcode.InvalidConfig, "xtal", "unknown drive")
	ErrInvalidMode         = errcode.New(errcode.InvalidConfig, "xtal", "unknown mode")
	ErrInvalidStb          = errcode.New(errcode.InvalidConfig, "xtal", "unknown stabilisation wait")
	ErrInvalidState        = errcode.New(errcode.InvalidConfig, "osc", "unknown oscillator state")
	ErrInvalidHRCFreq      = errcode.New(errcode.InvalidConfig, "hrc", "unknown frequency selector")
	ErrInvalidStdMode      = errcode.New(errcode.InvalidConfig, "xtalstd", "unknown response mode")
	ErrInvalidSource       = errcode.New(errcode.InvalidConfig, "sysclk", "unknown clock source")
	ErrInvalidDivider      = errcode.New(errcode.InvalidConfig, "sysclk", "unknown divider")
	ErrInvalidMCO          = errcode.New(errcode.InvalidConfig, "mco", "unknown source or divider")
	ErrInvalidXtalHz       = errcode.New(errcode.InvalidConfig, "config", "XtalHz must be non-zero")

	ErrOscInUse = errcode.New(errcode.Busy, "osc", "oscillator drives the system clock")
	ErrTimeout  = errcode.New(errcode.Timeout, "wait", "oscillator not stable")
)
