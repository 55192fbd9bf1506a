// Package i18n holds the user-facing texts of the finances hub and formats
// amounts for the configured locale.
package i18n

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"golang.org/x/text/number"
)

// DefaultLocale is used for empty or unknown locales
const DefaultLocale = "fr"

// Message keys
const (
	OverdueTitle       = "alert.overdue.title"
	OverdueDesc        = "alert.overdue.description"
	LowCollectionTitle = "alert.low_collection.title"
	LowCollectionDesc  = "alert.low_collection.description"
	VacantTitle        = "alert.vacant.title"
	VacantDesc         = "alert.vacant.description"

	FallbackProperty = "payment.fallback_property"
	FallbackTenant   = "payment.fallback_tenant"

	DigestSubjectCritical = "digest.subject.critical"
	DigestSubject         = "digest.subject"
	DigestGreeting        = "digest.greeting"
	DigestDefaultName     = "digest.default_name"
	DigestIntro           = "digest.intro"
	DigestKPIs            = "digest.kpis"
	DigestAlerts          = "digest.alerts"
	DigestSignoff         = "digest.signoff"
)

var tags = map[string]language.Tag{
	"fr": language.French,
	"en": language.English,
}

var monthLabels = map[string][12]string{
	"fr": {"Jan", "Fév", "Mar", "Avr", "Mai", "Juin", "Juil", "Août", "Sep", "Oct", "Nov", "Déc"},
	"en": {"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
}

var texts = newCatalog()

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.French))
	set := func(tag language.Tag, key string, msg catalog.Message) {
		if err := b.Set(tag, key, msg); err != nil {
			panic(err)
		}
	}
	fr, en := language.French, language.English

	set(fr, OverdueTitle, plural.Selectf(1, "%d",
		"one", "%d paiement en retard",
		"other", "%d paiements en retard"))
	set(en, OverdueTitle, plural.Selectf(1, "%d",
		"one", "%d overdue payment",
		"other", "%d overdue payments"))
	set(fr, OverdueDesc, catalog.String("%v€ à recouvrer"))
	set(en, OverdueDesc, catalog.String("€%v to recover"))

	set(fr, LowCollectionTitle, catalog.String("Taux de recouvrement faible"))
	set(en, LowCollectionTitle, catalog.String("Low collection rate"))
	set(fr, LowCollectionDesc, catalog.String("Seulement %d/%d paiements reçus ce mois"))
	set(en, LowCollectionDesc, catalog.String("Only %d/%d payments received this month"))

	set(fr, VacantTitle, plural.Selectf(1, "%d",
		"one", "%d bien vacant",
		"other", "%d biens vacants"))
	set(en, VacantTitle, plural.Selectf(1, "%d",
		"one", "%d vacant property",
		"other", "%d vacant properties"))
	set(fr, VacantDesc, catalog.String("%v€/mois de revenus potentiels"))
	set(en, VacantDesc, catalog.String("€%v/month of potential revenue"))

	set(fr, FallbackProperty, catalog.String("Propriété"))
	set(en, FallbackProperty, catalog.String("Property"))
	set(fr, FallbackTenant, catalog.String("Locataire"))
	set(en, FallbackTenant, catalog.String("Tenant"))

	set(fr, DigestSubjectCritical, plural.Selectf(1, "%d",
		"one", "Action requise : %d alerte financière sur vos biens",
		"other", "Action requise : %d alertes financières sur vos biens"))
	set(en, DigestSubjectCritical, plural.Selectf(1, "%d",
		"one", "Action required: %d finance alert on your properties",
		"other", "Action required: %d finance alerts on your properties"))
	set(fr, DigestSubject, plural.Selectf(1, "%d",
		"one", "Votre résumé financier du jour : %d alerte",
		"other", "Votre résumé financier du jour : %d alertes"))
	set(en, DigestSubject, plural.Selectf(1, "%d",
		"one", "Your daily finance digest: %d alert",
		"other", "Your daily finance digest: %d alerts"))
	set(fr, DigestGreeting, catalog.String("Bonjour %s,"))
	set(en, DigestGreeting, catalog.String("Dear %s,"))
	set(fr, DigestDefaultName, catalog.String("propriétaire"))
	set(en, DigestDefaultName, catalog.String("owner"))
	set(fr, DigestIntro, catalog.String("Voici votre résumé financier du %s."))
	set(en, DigestIntro, catalog.String("Here is your finance summary for %s."))
	set(fr, DigestKPIs, catalog.String(
		"Revenus du mois : %v EUR\n"+
			"En attente ce mois : %v EUR\n"+
			"En retard : %v EUR\n"+
			"Taux de recouvrement : %d %%\n"+
			"Taux d'occupation : %d %%"))
	set(en, DigestKPIs, catalog.String(
		"Monthly revenue: %v EUR\n"+
			"Pending this month: %v EUR\n"+
			"Overdue: %v EUR\n"+
			"Collection rate: %d%%\n"+
			"Occupation rate: %d%%"))
	set(fr, DigestAlerts, catalog.String("Alertes :"))
	set(en, DigestAlerts, catalog.String("Alerts:"))
	set(fr, DigestSignoff, catalog.String("Cordialement,\nEasyCo"))
	set(en, DigestSignoff, catalog.String("Best regards,\nEasyCo"))

	return b
}

// Tag maps a configured locale to its language tag
func Tag(locale string) language.Tag {
	if tag, ok := tags[locale]; ok {
		return tag
	}
	return tags[DefaultLocale]
}

// Printer returns a printer resolving the message keys of this package.
// Printers are not safe for concurrent use; get one per call site.
func Printer(locale string) *message.Printer {
	return message.NewPrinter(Tag(locale), message.Catalog(texts))
}

// Amount wraps a money amount for a Printer: grouped thousands, at most two decimals.
func Amount(d decimal.Decimal) number.Formatter {
	return number.Decimal(d.Round(2).InexactFloat64(), number.MaxFractionDigits(2))
}

// FormatAmount renders an amount for the locale, e.g. "1 250" (fr) or "1,250.5" (en)
func FormatAmount(d decimal.Decimal, locale string) string {
	return Printer(locale).Sprint(Amount(d))
}

// MonthLabel returns the short month name of t
func MonthLabel(t time.Time, locale string) string {
	labels, ok := monthLabels[locale]
	if !ok {
		labels = monthLabels[DefaultLocale]
	}
	return labels[t.Month()-1]
}
