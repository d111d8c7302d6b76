package storefront

import (
	"github.com/5w1tchy/oku-storefront/internal/backend"
	"github.com/5w1tchy/oku-storefront/internal/i18n"
)

const dateLayout = "02.01.2006 15:04"

// FormatDate renders DD.MM.YYYY HH:MM, or the localized "date error".
func FormatDate(loc *i18n.Localizer, t backend.FlexTime) string {
	if !t.Valid {
		return loc.T(i18n.MsgDateError)
	}
	return t.Time.In(backend.DisplayLocation).Format(dateLayout)
}
