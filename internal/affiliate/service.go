package affiliate

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/quangdng/spotline/internal/core/place"
	"github.com/quangdng/spotline/internal/platform/apperr"
	"github.com/quangdng/spotline/internal/platform/validate"
)

// Service owns every transition of the linkswitch state machine. All writes
// to the affiliate envelope flow through here; nothing else may touch it.
type Service struct {
	places place.Repository
	fetch  Fetcher
	domain string
	logger *slog.Logger
	now    func() time.Time
}

func NewService(places place.Repository, fetch Fetcher, domain string, logger *slog.Logger) *Service {
	return &Service{
		places: places,
		fetch:  fetch,
		domain: domain,
		logger: logger,
		now:    time.Now,
	}
}

// SetURL attaches an affiliate URL to a place and moves it to pending.
//
// Only unset and pending places accept a URL. An active link must be
// deactivated before its URL can change, and a flagged place stays locked
// until an operator resolves the flag. The URL must parse and must live on
// the configured affiliate domain; a syntactically valid URL on a foreign
// domain is rejected the same as a malformed one.
func (service *Service) SetURL(context context.Context, placeID, rawURL string) (*place.Place, error) {
	validator := &validate.Validator{}
	validator.Required(place.FieldAffiliateURL, rawURL)
	validator.URL(place.FieldAffiliateURL, rawURL)
	validator.Domain(place.FieldAffiliateURL, rawURL, service.domain)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return service.transition(context, placeID, "affiliate_url_set", func(ls *place.LinkSwitch) error {
		if ls.Status != place.LinkUnset && ls.Status != place.LinkPending {
			return apperr.InvalidTransition(string(ls.Status), string(place.LinkPending))
		}
		ls.Status = place.LinkPending
		ls.OriginalURL = rawURL
		return nil
	})
}

// Activate promotes a pending or inactive link to active and stamps the
// verification time. A place without a stored URL cannot activate.
func (service *Service) Activate(context context.Context, placeID string) (*place.Place, error) {
	return service.transition(context, placeID, "affiliate_activated", func(ls *place.LinkSwitch) error {
		if ls.Status != place.LinkPending && ls.Status != place.LinkInactive {
			return apperr.InvalidTransition(string(ls.Status), string(place.LinkActive))
		}
		if ls.OriginalURL == "" {
			return apperr.Unprocessable("Cannot activate a link without a stored affiliate URL")
		}
		ls.Status = place.LinkActive
		service.stampVerified(ls)
		return nil
	})
}

// Deactivate pauses an active link. The URL stays in place so the link can
// reactivate without re-entering it.
func (service *Service) Deactivate(context context.Context, placeID, reason string) (*place.Place, error) {
	return service.transition(context, placeID, "affiliate_deactivated", func(ls *place.LinkSwitch) error {
		if ls.Status != place.LinkActive {
			return apperr.InvalidTransition(string(ls.Status), string(place.LinkInactive))
		}
		ls.Status = place.LinkInactive
		ls.Notes = reason
		return nil
	})
}

// Flag quarantines a place from any state. Flagged places drop out of the
// monetization projection until an operator clears them via Resolve.
func (service *Service) Flag(context context.Context, placeID, reason string) (*place.Place, error) {
	return service.transition(context, placeID, "affiliate_flagged", func(ls *place.LinkSwitch) error {
		ls.Status = place.LinkFlagged
		ls.Notes = reason
		return nil
	})
}

// Resolve clears a flag back to pending when a URL is stored, or unset when
// none is. The link then re-earns active through the normal path.
func (service *Service) Resolve(context context.Context, placeID, note string) (*place.Place, error) {
	return service.transition(context, placeID, "affiliate_flag_resolved", func(ls *place.LinkSwitch) error {
		if ls.Status != place.LinkFlagged {
			return apperr.InvalidTransition(string(ls.Status), string(place.LinkPending))
		}
		if ls.OriginalURL != "" {
			ls.Status = place.LinkPending
		} else {
			ls.Status = place.LinkUnset
		}
		ls.Notes = note
		return nil
	})
}

// Reverify fetches the stored affiliate URL of an active link and checks
// that the target page still mentions the place by name. A fetch failure or
// a page that lost the name flags the place with a note saying what broke;
// a clean pass only advances last_verified.
func (service *Service) Reverify(context context.Context, placeID string) (*place.Place, error) {
	stored, err := service.places.Get(context, placeID)
	if err != nil {
		return nil, err
	}

	ls := stored.Affiliate.LinkSwitch
	if ls.Status != place.LinkActive {
		return nil, apperr.InvalidTransition(string(ls.Status), string(place.LinkActive))
	}

	body, err := service.fetch.Fetch(context, ls.OriginalURL)
	if err != nil {
		return service.Flag(context, placeID, "reverification fetch failed: "+err.Error())
	}
	if !strings.Contains(strings.ToLower(body), strings.ToLower(stored.Name)) {
		return service.Flag(context, placeID, "reverification mismatch: target page no longer mentions the place")
	}

	return service.transition(context, placeID, "affiliate_reverified", func(ls *place.LinkSwitch) error {
		service.stampVerified(ls)
		return nil
	})
}

// transition loads the place, applies the mutation to its linkswitch
// payload and persists the whole envelope back. The provider metadata rides
// along untouched.
func (service *Service) transition(context context.Context, placeID, event string, mutate func(*place.LinkSwitch) error) (*place.Place, error) {
	stored, err := service.places.Get(context, placeID)
	if err != nil {
		return nil, err
	}

	from := stored.Affiliate.LinkSwitch.Status
	if err := mutate(&stored.Affiliate.LinkSwitch); err != nil {
		return nil, err
	}

	if err := service.places.UpdateAffiliate(context, placeID, stored.Affiliate); err != nil {
		return nil, err
	}

	service.logger.Info(event,
		slog.String("place_id", placeID),
		slog.String("from", string(from)),
		slog.String("to", string(stored.Affiliate.LinkSwitch.Status)),
	)
	return stored, nil
}

// stampVerified advances last_verified monotonically. A wall clock that
// jumped backwards cannot rewind an earlier verification.
func (service *Service) stampVerified(ls *place.LinkSwitch) {
	now := service.now()
	if ls.LastVerified == nil || now.After(*ls.LastVerified) {
		ls.LastVerified = &now
	}
}
