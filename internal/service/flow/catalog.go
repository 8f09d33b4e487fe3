// internal/service/flow/catalog.go
package flow

import (
	"fmt"
	"strings"

	"signup-service/internal/domain/signup"
)

// Counties offered for Bixia nära.
var Counties = []string{
	"Blekinge län",
	"Dalarnas län",
	"Gotlands län",
	"Gävleborgs län",
	"Hallands län",
	"Jämtlands län",
	"Jönköpings län",
	"Kalmar län",
	"Kronobergs län",
	"Norrbottens län",
	"Skåne län",
	"Stockholms län",
	"Södermanlands län",
	"Uppsala län",
	"Värmlands län",
	"Västerbottens län",
	"Västernorrlands län",
	"Västmanlands län",
	"Västra Götalands län",
	"Örebro län",
	"Östergötlands län",
}

var cityCounty = map[string]string{
	"Luleå":     "Norrbottens län",
	"Kiruna":    "Norrbottens län",
	"Umeå":      "Västerbottens län",
	"Sundsvall": "Västernorrlands län",
	"Östersund": "Jämtlands län",
	"Stockholm": "Stockholms län",
	"Göteborg":  "Västra Götalands län",
	"Uppsala":   "Uppsala län",
	"Malmö":     "Skåne län",
	"Lund":      "Skåne län",
	"Växjö":     "Kronobergs län",
}

// CountyForCity suggests a county from the delivery address.
func CountyForCity(city string) string {
	return cityCounty[strings.TrimSpace(city)]
}

func knownCounty(county string) bool {
	for _, c := range Counties {
		if c == county {
			return true
		}
	}
	return false
}

var serviceTitles = map[signup.ContactMeService]string{
	signup.ServiceHomeBattery:     "Hembatteri",
	signup.ServiceCharger:         "Laddbox",
	signup.ServiceSolar:           "Solceller",
	signup.ServiceAtticInsulation: "Tilläggsisolera vinden",
}

// ServiceOption is a contact-me service as listed on the last extras step.
type ServiceOption struct {
	ID    signup.ContactMeService `json:"id"`
	Title string                  `json:"title"`
}

func serviceOptions(services []signup.ContactMeService) []ServiceOption {
	out := make([]ServiceOption, 0, len(services))
	for _, s := range services {
		out = append(out, ServiceOption{ID: s, Title: serviceTitles[s]})
	}
	return out
}

func contactMeThanks(phone string, services []signup.ContactMeService) string {
	var b strings.Builder
	b.WriteString("Tack, vi hör av oss inom kort")
	if phone != "" {
		fmt.Fprintf(&b, " på nummer %s", phone)
	}
	if len(services) > 0 {
		titles := make([]string, 0, len(services))
		for _, s := range services {
			titles = append(titles, serviceTitles[s])
		}
		fmt.Fprintf(&b, " om %s", strings.Join(titles, ", "))
	}
	b.WriteString(".")
	return b.String()
}

type stopText struct {
	title       string
	description string
}

var stopTexts = map[signup.StopReason]stopText{
	signup.StopCannotDeliver: {
		"Vi kan inte leverera till denna adress just nu",
		"Det går tyvärr inte att teckna avtal för den valda adressen i nuläget. Du kan kontrollera adressen eller kontakta kundservice för hjälp.",
	},
	signup.StopDuplicateSameContract: {
		"Det finns redan ett aktivt avtal på adressen",
		"Vi kan inte skapa ett nytt identiskt avtal ovanpå det som redan finns. Gå tillbaka för att justera dina val eller kontakta oss.",
	},
	signup.StopPendingCase: {
		"Det finns redan ett pågående ärende",
		"Vi har redan en pågående beställning kopplad till dina uppgifter. Vänta tills ärendet är klart eller kontakta kundservice.",
	},
}

// User-facing messages.
const (
	msgStrongAuthRequired = "Du är redan kund hos oss! För din säkerhet behöver du verifiera dig med BankID."
	msgClassifyFailed     = "Vi kunde inte hämta dina uppgifter just nu. Försök igen om en stund."
	msgPriceUpdated       = "Priset har uppdaterats"
	msgProductUnavailable = "Avtalet finns inte i elområde %s"
	msgChooseInvoice      = "Välj en fakturaadress från listan"
	msgChooseCounty       = "Välj län för Bixia nära innan du fortsätter."
	msgTermsRequired      = "Du behöver godkänna villkoren"
	msgRiskRequired       = "Du behöver bekräfta att du tagit del av riskinformationen"
	msgFacilityRequired   = "Välj hur vi ska hämta ditt anläggnings-ID"
	msgSaveExtrasFailed   = "Det gick inte att spara dina val just nu. Försök igen."
	msgSigningFailed      = "Signeringen avbröts. Försök igen."
	msgCompanyNotFound    = "Vi kunde tyvärr inte hitta företaget. Kontrollera numret och försök igen."
	msgCompanyContact     = "Vi hjälper dig gärna personligen!"
	msgStepUnavailable    = "Steget är inte tillgängligt ännu"

	CompanySalesPhone = "0771-60 30 30"
	CompanySalesHours = "Öppet vardagar 08.00–16.00"
)
