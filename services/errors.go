package services

import "errors"

// Domain errors surfaced to controllers. Controllers map them onto HTTP
// statuses; everything else is a 500.
var (
	ErrFoodNotFound        = errors.New("food not found")
	ErrMealNotFound        = errors.New("meal not found")
	ErrTemplateNotFound    = errors.New("template not found")
	ErrMenuNotFound        = errors.New("weekly menu not found")
	ErrPlanNotFound        = errors.New("plan not found")
	ErrTrackedDayNotFound  = errors.New("tracked day not found")
	ErrTrackedMealNotFound = errors.New("tracked meal not found")

	ErrDuplicateName = errors.New("name already in use")
	ErrFoodInUse     = errors.New("food is referenced by meals or tracked days")
	ErrMealInUse     = errors.New("meal is referenced by plans, templates or tracked days")
)
