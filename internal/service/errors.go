package service

import "errors"

var (
	ErrPasswordIncorrect        = errors.New("password incorrect")
	ErrTokenIncorrect           = errors.New("token incorrect")
	ErrValidation               = errors.New("validation failed")
	ErrNoOrganization           = errors.New("user has no organization")
	ErrAlreadyInOrganization    = errors.New("user already belongs to an organization")
	ErrOrganizationNotFound     = errors.New("organization not found")
	ErrTemplateNotFound         = errors.New("template not found")
	ErrConfigurationNotFound    = errors.New("configuration not found")
	ErrInspectionNotFound       = errors.New("inspection not found")
	ErrRequiredQuestionsMissing = errors.New("required questions unanswered")
)
