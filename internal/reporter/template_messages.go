package reporter

// templateMessagesPL holds the Polish text of every message used in the
// e-mail templates. English is the message key itself.
var templateMessagesPL = map[string]string{
	"Vulnerabilities found for":                                      "Podatności wykryte dla",
	"The following addresses contain SQL Injection vulnerabilities:": "Następujące adresy zawierają podatności SQL Injection:",
	"database version":                                               "wersja bazy danych",
	"database user":                                                  "użytkownik bazy danych",
	"The following VNC servers accept an easy to guess password:":    "Następujące serwery VNC akceptują łatwe do odgadnięcia hasło:",
	"password": "hasło",
	"The following Moodle instances disclose their version:": "Następujące instancje Moodle ujawniają swoją wersję:",
	"version": "wersja",
	"server":  "serwer",
	"The following Moodle instances are affected by known vulnerabilities:": "Następujące instancje Moodle są podatne na znane podatności:",
	"The following WordPress sites contain known vulnerabilities:":          "Następujące strony WordPress zawierają znane podatności:",
	"The following WordPress sites expose files that should not be public:": "Następujące strony WordPress udostępniają pliki, które nie powinny być publiczne:",
	"The following subdomains may be taken over by an attacker:":            "Następujące subdomeny mogą zostać przejęte przez atakującego:",
	"The following addresses contain Cross-Site Scripting vulnerabilities:": "Następujące adresy zawierają podatności Cross-Site Scripting:",
	"The following FortiOS devices run a vulnerable version:":               "Następujące urządzenia FortiOS działają w podatnej wersji:",
	"The following sites use an SSL certificate that has expired:":          "Następujące strony używają certyfikatu SSL, który wygasł:",
	"expired on": "wygasł",
	"The following sites use an SSL certificate not signed by a trusted authority:": "Następujące strony używają certyfikatu SSL niepodpisanego przez zaufany urząd certyfikacji:",
	"The following sites use an SSL certificate issued for other names:":            "Następujące strony używają certyfikatu SSL wystawionego dla innych nazw:",
	"certificate names": "nazwy w certyfikacie",
	"The following sites do not redirect from HTTP to HTTPS:": "Następujące strony nie przekierowują z HTTP na HTTPS:",
}
