package game

import "errors"

var (
	ErrNotIdle               = errors.New("mining session already active")
	ErrNotMineable           = errors.New("element is not mineable")
	ErrNotMining             = errors.New("no mining session active")
	ErrUnknownPet            = errors.New("unknown pet")
	ErrUnknownEnchantment    = errors.New("unknown enchantment")
	ErrUnknownResource       = errors.New("unknown resource")
	ErrUnknownItem           = errors.New("unknown item")
	ErrInsufficientResources = errors.New("insufficient resources")
	ErrEffectActive          = errors.New("effect already active")
	ErrOverlayBlocked        = errors.New("overlay slot held by higher priority")
	ErrNoSuchIndex           = errors.New("index out of range")
	ErrNothingToUse          = errors.New("nothing to use")
)

var (
	ErrNoEncounter = errors.New("no such encounter active")
	ErrDisabled    = errors.New("mining disabled on this page")
)
