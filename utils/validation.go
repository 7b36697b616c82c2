package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/aspireon/storefront/models"
)

// FieldValidationError represents a validation error for a specific field
type FieldValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every failed field of one input
type ValidationErrors []FieldValidationError

// Error implements the error interface
func (e ValidationErrors) Error() string {
	var messages []string
	for _, err := range e {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

// Add records a failure for field
func (e *ValidationErrors) Add(field, message string) {
	*e = append(*e, FieldValidationError{Field: field, Message: message})
}

// Err returns nil when nothing failed
func (e ValidationErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// AsValidationErrors reports whether err carries ValidationErrors and stores them in target
func AsValidationErrors(err error, target *ValidationErrors) bool {
	return errors.As(err, target)
}

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{6,14}$`)
	nameRegex  = regexp.MustCompile(`^[a-zA-Z\s\-']+$`)
	slugRegex  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	priceRegex = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
	// Password validation regex patterns
	hasLower   = regexp.MustCompile(`[a-z]`)
	hasUpper   = regexp.MustCompile(`[A-Z]`)
	hasNumber  = regexp.MustCompile(`[0-9]`)
	hasSpecial = regexp.MustCompile(`[^A-Za-z0-9]`)
	scriptTag  = regexp.MustCompile(`(?i)(<script.*>|javascript:|onerror=|onload=)`)
)

// MinPasswordLength is the shortest password accepted at sign up
const MinPasswordLength = 12

// ValidateEmail checks if the email is valid
func ValidateEmail(email string) (bool, string) {
	if !emailRegex.MatchString(strings.TrimSpace(email)) {
		return false, "Invalid email address"
	}
	return true, ""
}

// ValidatePassword checks if the password meets the requirements
func ValidatePassword(password string) (bool, string) {
	if len(password) < MinPasswordLength {
		return false, fmt.Sprintf("Password must be at least %d characters", MinPasswordLength)
	}
	if !hasLower.MatchString(password) {
		return false, "Password must contain at least one lowercase letter"
	}
	if !hasUpper.MatchString(password) {
		return false, "Password must contain at least one uppercase letter"
	}
	if !hasNumber.MatchString(password) {
		return false, "Password must contain at least one number"
	}
	if !hasSpecial.MatchString(password) {
		return false, "Password must contain at least one special character"
	}
	return true, ""
}

// ValidatePhone checks an optional international phone number
func ValidatePhone(phone string) (bool, string) {
	if phone == "" {
		return true, ""
	}
	compact := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
	if !phoneRegex.MatchString(compact) {
		return false, "Invalid phone number"
	}
	return true, ""
}

// ValidateXSS rejects markup that would run in a browser
func ValidateXSS(input string) (bool, string) {
	if scriptTag.MatchString(input) {
		return false, "Script content is not allowed"
	}
	return true, ""
}

func minLength(errs *ValidationErrors, field, value string, min int) {
	if len(strings.TrimSpace(value)) < min {
		errs.Add(field, fmt.Sprintf("must be at least %d characters", min))
	}
}

// SignUpInput is the registration form
type SignUpInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ValidateSignUp checks the registration form
func ValidateSignUp(in SignUpInput) error {
	var errs ValidationErrors
	name := strings.TrimSpace(in.Name)
	switch {
	case len(name) < 2:
		errs.Add("name", "must be at least 2 characters")
	case len(name) > 100:
		errs.Add("name", "must not exceed 100 characters")
	case !nameRegex.MatchString(name):
		errs.Add("name", "may only contain letters, spaces, hyphens and apostrophes")
	}
	if ok, msg := ValidateEmail(in.Email); !ok {
		errs.Add("email", msg)
	}
	if ok, msg := ValidatePassword(in.Password); !ok {
		errs.Add("password", msg)
	}
	if in.Password != in.ConfirmPassword {
		errs.Add("confirm_password", "Passwords don't match")
	}
	return errs.Err()
}

// SignInInput is the credentials form
type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ValidateSignIn checks the credentials form
func ValidateSignIn(in SignInInput) error {
	var errs ValidationErrors
	if ok, msg := ValidateEmail(in.Email); !ok {
		errs.Add("email", msg)
	}
	minLength(&errs, "password", in.Password, 6)
	return errs.Err()
}

// ProfileInput is the self-service profile form
type ProfileInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ValidateProfile checks the profile form
func ValidateProfile(in ProfileInput) error {
	var errs ValidationErrors
	minLength(&errs, "name", in.Name, 3)
	if ok, msg := ValidateEmail(in.Email); !ok {
		errs.Add("email", msg)
	}
	if ok, msg := ValidatePhone(in.Phone); !ok {
		errs.Add("phone", msg)
	}
	return errs.Err()
}

// UpdateUserInput is the admin user form
type UpdateUserInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

// ValidateUpdateUser checks the admin user form
func ValidateUpdateUser(in UpdateUserInput) error {
	var errs ValidationErrors
	minLength(&errs, "name", in.Name, 3)
	if ok, msg := ValidatePhone(in.Phone); !ok {
		errs.Add("phone", msg)
	}
	if in.Role != models.RoleUser && in.Role != models.RoleAdmin {
		errs.Add("role", "must be user or admin")
	}
	return errs.Err()
}

// ValidateShippingAddress checks every address line
func ValidateShippingAddress(addr models.ShippingAddress) error {
	var errs ValidationErrors
	minLength(&errs, "full_name", addr.FullName, 3)
	minLength(&errs, "street_address", addr.StreetAddress, 3)
	minLength(&errs, "city", addr.City, 3)
	minLength(&errs, "postal_code", addr.PostalCode, 3)
	minLength(&errs, "country", addr.Country, 3)
	if addr.Lat != nil && (*addr.Lat < -90 || *addr.Lat > 90) {
		errs.Add("lat", "must be between -90 and 90")
	}
	if addr.Lng != nil && (*addr.Lng < -180 || *addr.Lng > 180) {
		errs.Add("lng", "must be between -180 and 180")
	}
	return errs.Err()
}

// ValidatePaymentMethod checks method against the enabled methods
func ValidatePaymentMethod(method string, allowed []string) error {
	for _, m := range allowed {
		if m == method {
			return nil
		}
	}
	var errs ValidationErrors
	errs.Add("type", "Invalid payment method")
	return errs
}

// PromotionInput is the optional promotion section of the product form
type PromotionInput struct {
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

// ProductInput is the admin product form
type ProductInput struct {
	Name           string          `json:"name"`
	Slug           string          `json:"slug"`
	Category       string          `json:"category"`
	Brand          string          `json:"brand"`
	Description    string          `json:"description"`
	Images         []string        `json:"images"`
	Sizes          []string        `json:"sizes"`
	Stock          int             `json:"stock"`
	Price          json.Number     `json:"price"`
	SalePercentage int             `json:"sale_percentage"`
	IsFeatured     bool            `json:"is_featured"`
	Banner         *string         `json:"banner"`
	HasPromotion   bool            `json:"has_promotion"`
	Promotion      *PromotionInput `json:"promotion"`
}

// ValidateProduct checks the admin product form
func ValidateProduct(in ProductInput) error {
	var errs ValidationErrors
	minLength(&errs, "name", in.Name, 3)
	if !slugRegex.MatchString(in.Slug) {
		errs.Add("slug", "must be lowercase letters, digits and single hyphens")
	}
	minLength(&errs, "category", in.Category, 3)
	minLength(&errs, "brand", in.Brand, 3)
	minLength(&errs, "description", in.Description, 3)
	if ok, msg := ValidateXSS(in.Description); !ok {
		errs.Add("description", msg)
	}

	if len(in.Images) == 0 {
		errs.Add("images", "Product must have at least one image")
	}
	for i, img := range in.Images {
		if !isHTTPURL(img) {
			errs.Add(fmt.Sprintf("images[%d]", i), "must be an http(s) URL")
		}
	}
	if len(in.Sizes) == 0 {
		errs.Add("sizes", "Product must have at least one size")
	}
	for i, size := range in.Sizes {
		if strings.TrimSpace(size) == "" {
			errs.Add(fmt.Sprintf("sizes[%d]", i), "must not be empty")
		}
	}

	if in.Stock < 0 {
		errs.Add("stock", "cannot be negative")
	}
	if !priceRegex.MatchString(in.Price.String()) {
		errs.Add("price", "Price must be a number with at most two decimal places")
	}
	if in.SalePercentage < 0 || in.SalePercentage > 100 {
		errs.Add("sale_percentage", "must be between 0 and 100")
	}
	if in.IsFeatured && (in.Banner == nil || !isHTTPURL(*in.Banner)) {
		errs.Add("banner", "Banner is required for featured products")
	}

	if in.HasPromotion {
		p := in.Promotion
		switch {
		case p == nil:
			errs.Add("promotion", "Promotion details are required")
		default:
			if strings.TrimSpace(p.Description) == "" {
				errs.Add("promotion.description", "Promotion description is required")
			}
			if p.StartDate == nil {
				errs.Add("promotion.start_date", "Promotion start date is required")
			}
			if p.EndDate == nil {
				errs.Add("promotion.end_date", "Promotion end date is required")
			}
			if p.StartDate != nil && p.EndDate != nil && !p.EndDate.After(*p.StartDate) {
				errs.Add("promotion.end_date", "End date must be after start date")
			}
		}
	}
	return errs.Err()
}

// ReviewInput is the review form
type ReviewInput struct {
	Rating      int    `json:"rating"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ValidateReview checks the review form
func ValidateReview(in ReviewInput) error {
	var errs ValidationErrors
	if in.Rating < 1 || in.Rating > 5 {
		errs.Add("rating", "Rating must be between 1 and 5")
	}
	minLength(&errs, "title", in.Title, 3)
	minLength(&errs, "description", in.Description, 3)
	if ok, msg := ValidateXSS(in.Title + " " + in.Description); !ok {
		errs.Add("description", msg)
	}
	return errs.Err()
}

func isHTTPURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
