package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aspireon/storefront/config"
	"github.com/aspireon/storefront/metrics"
	"github.com/aspireon/storefront/middleware"
	"github.com/aspireon/storefront/models"
	"github.com/aspireon/storefront/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionCartNotFoundMessage is returned when a sign in arrives without a session cart id
const SessionCartNotFoundMessage = "Session Cart Not Found"

// SignUp registers a user and signs them in
func SignUp(c *gin.Context) {
	utils.LogInfo("SignUp called")

	var req utils.SignUpInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Sign up failed - invalid request format: %v", err)
		utils.ActionFailure(c, http.StatusBadRequest, "Invalid request")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := utils.ValidateSignUp(req); err != nil {
		utils.LogError("Sign up failed - validation for %s: %v", req.Email, err)
		utils.ActionError(c, err)
		return
	}

	if _, err := utils.GetUserByEmail(config.DB, req.Email); err == nil {
		utils.LogError("Sign up failed - email already registered: %s", req.Email)
		utils.ActionFailure(c, http.StatusConflict, "Email already exist")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.LogError("Sign up failed - lookup for %s: %v", req.Email, err)
		utils.ActionFailure(c, http.StatusInternalServerError, "Failed to create account")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.LogError("Failed to hash password: %v", err)
		utils.ActionFailure(c, http.StatusInternalServerError, "Failed to create account")
		return
	}

	user := models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Password: hash,
		Role:     models.RoleUser,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.ActionFailure(c, http.StatusConflict, "Email already exist")
			return
		}
		utils.LogError("Failed to create user %s: %v", req.Email, err)
		utils.ActionFailure(c, http.StatusInternalServerError, "Failed to create account")
		return
	}
	utils.LogInfo("User registered: %s", user.Email)

	completeSignIn(c, &user, "User created successfully")
}

// SignIn checks credentials, issues a token and reconciles the session cart
func SignIn(c *gin.Context) {
	utils.LogInfo("SignIn called")

	var req utils.SignInInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Sign in failed - invalid request format: %v", err)
		utils.ActionFailure(c, http.StatusBadRequest, "Invalid email or password")
		return
	}
	if err := utils.ValidateSignIn(req); err != nil {
		utils.ActionError(c, err)
		return
	}

	user, err := utils.GetUserByEmail(config.DB, req.Email)
	if err != nil || user.Password == "" || !utils.CheckPassword(req.Password, user.Password) {
		utils.LogError("Sign in failed for %s", req.Email)
		utils.ActionFailure(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if user.Name == models.DefaultUserName {
		user.Name = utils.NameFromEmail(user.Email)
		if err := config.DB.Model(user).Update("name", user.Name).Error; err != nil {
			utils.LogError("Failed to set name for %s: %v", user.Email, err)
		}
	}

	completeSignIn(c, user, "Signed in successfully")
}

// SignOut forgets the signed in user; the session cart id stays
func SignOut(c *gin.Context) {
	utils.LogInfo("SignOut called")
	if err := middleware.EndUserSession(c); err != nil {
		utils.LogError("Failed to end session: %v", err)
		utils.ActionFailure(c, http.StatusInternalServerError, "Failed to sign out")
		return
	}
	utils.ActionSuccess(c, "Signed out successfully", nil)
}

func completeSignIn(c *gin.Context, user *models.User, message string) {
	token, err := utils.GenerateToken(user)
	if err != nil {
		utils.LogError("Failed to generate token for %s: %v", user.Email, err)
		utils.ActionFailure(c, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	plan, err := reconcileSignInCart(c, user)
	if err != nil {
		if errors.Is(err, utils.ErrSessionCartMissing) {
			utils.LogError("Sign in aborted for %s: session has no cart id", user.Email)
			c.AbortWithStatusJSON(http.StatusInternalServerError, utils.ActionResult{
				Success: false,
				Message: SessionCartNotFoundMessage,
			})
			return
		}
		utils.LogError("Failed to reconcile cart for %s: %v", user.Email, err)
		utils.ActionFailure(c, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	if err := middleware.StartUserSession(c, token, plan.SessionCartID, plan.PreviousSessionCartID); err != nil {
		utils.LogError("Failed to start session for %s: %v", user.Email, err)
		utils.ActionFailure(c, http.StatusInternalServerError, "Failed to sign in")
		return
	}
	metrics.RecordCartResolution(c.Request.Context(), plan.Action.String())

	rc := middleware.Current(c)
	userID := user.ID
	rc.UserID = &userID
	rc.Role = user.Role
	rc.Name = user.Name

	utils.LogInfo("User signed in successfully: %s (cart %s)", user.Email, plan.Action)
	utils.ActionSuccess(c, message, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// reconcileSignInCart applies the sign in cart rule inside one transaction
func reconcileSignInCart(c *gin.Context, user *models.User) (utils.SignInCartPlan, error) {
	rc := middleware.Current(c)
	if rc.SessionCartID == "" {
		return utils.SignInCartPlan{}, utils.ErrSessionCartMissing
	}

	var plan utils.SignInCartPlan
	err := config.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		anon, err := utils.FindAnonymousCart(tx, rc.SessionCartID)
		if err != nil {
			return utils.WrapError(err, "failed to load session cart")
		}
		userCart, err := utils.FindUserCart(tx, user.ID)
		if err != nil {
			return utils.WrapError(err, "failed to load user cart")
		}

		var stock map[uuid.UUID]int
		if anon != nil && userCart != nil && config.Current.CartMergePolicy == utils.MergePolicyUnion {
			stock, err = utils.ProductStock(tx, cartProductIDs(anon, userCart))
			if err != nil {
				return utils.WrapError(err, "failed to load stock")
			}
		}

		plan, err = utils.PlanSignInCart(rc.SessionCartID, user.ID, anon, userCart,
			config.Current.CartMergePolicy, utils.CurrentPricingPolicy(), stock)
		if err != nil {
			return err
		}
		if plan.Save != nil {
			if err := tx.Save(plan.Save).Error; err != nil {
				return utils.WrapError(err, "failed to save cart")
			}
		}
		return nil
	})
	return plan, err
}

func cartProductIDs(carts ...*models.Cart) []uuid.UUID {
	seen := map[uuid.UUID]bool{}
	var ids []uuid.UUID
	for _, cart := range carts {
		for _, item := range cart.Items {
			if !seen[item.ProductID] {
				seen[item.ProductID] = true
				ids = append(ids, item.ProductID)
			}
		}
	}
	return ids
}
