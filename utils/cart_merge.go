package utils

import (
	"github.com/aspireon/storefront/models"
	"github.com/google/uuid"
)

// SignInCartAction says what happens to the carts when a shopper signs in
type SignInCartAction int

const (
	// CartActionNone: no cart on either side, one is created on the first add
	CartActionNone SignInCartAction = iota
	// CartActionPromote: the anonymous cart becomes the user's cart
	CartActionPromote
	// CartActionAdoptUserCart: the session switches over to the user's existing cart
	CartActionAdoptUserCart
	// CartActionKeepUserCart: both exist, the user's cart wins and the session switches to it
	CartActionKeepUserCart
)

func (a SignInCartAction) String() string {
	switch a {
	case CartActionPromote:
		return "promote"
	case CartActionAdoptUserCart:
		return "adopt-user-cart"
	case CartActionKeepUserCart:
		return "keep-user-cart"
	default:
		return "none"
	}
}

// Merge policies for the case where both carts exist
const (
	MergePolicyKeepUser = "keep-user"
	MergePolicyUnion    = "union"
)

// ResolveSignInCart classifies the two carts found at sign in. anon only counts when it has no
// owner yet.
func ResolveSignInCart(anon, user *models.Cart) SignInCartAction {
	hasAnon := anon != nil && anon.IsAnonymous()
	hasUser := user != nil
	switch {
	case hasAnon && hasUser:
		return CartActionKeepUserCart
	case hasAnon:
		return CartActionPromote
	case hasUser:
		return CartActionAdoptUserCart
	default:
		return CartActionNone
	}
}

// SignInCartPlan is the outcome of reconciling carts at sign in
type SignInCartPlan struct {
	Action SignInCartAction
	// SessionCartID is the cart id the session carries from now on
	SessionCartID string
	// PreviousSessionCartID is the anonymous id, set only when the session id was swapped
	PreviousSessionCartID string
	// Save is the cart to persist, nil when no cart changes
	Save *models.Cart
}

// PlanSignInCart works out the session and cart changes for userID signing in with
// sessionCartID. A session without a cart id is a configuration fault and fails with
// ErrSessionCartMissing. The anonymous cart is never modified when the user already has one.
// stock caps the quantities of merged lines and is only read by the union policy.
func PlanSignInCart(sessionCartID string, userID uuid.UUID, anon, user *models.Cart, policy string, pricing PricingPolicy, stock map[uuid.UUID]int) (SignInCartPlan, error) {
	if sessionCartID == "" {
		return SignInCartPlan{}, ErrSessionCartMissing
	}

	plan := SignInCartPlan{
		Action:        ResolveSignInCart(anon, user),
		SessionCartID: sessionCartID,
	}

	switch plan.Action {
	case CartActionPromote:
		owner := userID
		anon.UserID = &owner
		plan.Save = anon
	case CartActionAdoptUserCart, CartActionKeepUserCart:
		plan.PreviousSessionCartID = sessionCartID
		plan.SessionCartID = user.SessionCartID
		if plan.Action == CartActionKeepUserCart && policy == MergePolicyUnion {
			user.Items = MergeCartItems(user.Items, anon.Items, stock)
			RecomputeCart(user, pricing)
			plan.Save = user
		}
	}
	return plan, nil
}
