package repository

import (
	"strings"

	"github.com/cyberpulse/pulse/internal/models"
)

// glossary is the static definitions table matched by the omni-search
// definitions branch. Not a managed data source.
var glossary = []models.Definition{
	{Term: "Trojan", Definition: "A type of malware that conceals its true content to fool a user into thinking it's a harmless file."},
	{Term: "Ransomware", Definition: "Malware that employs encryption to hold a victim's information at ransom."},
	{Term: "Phishing", Definition: "A social engineering attack used to steal user data, including login credentials and credit card numbers."},
	{Term: "XSS (Cross-Site Scripting)", Definition: "A vulnerability that allows an attacker to compromise the interactions that users have with a vulnerable application."},
	{Term: "Zero-Day", Definition: "A vulnerability unknown to the vendor, exploited before a patch exists."},
	{Term: "Malware", Definition: "Any software intentionally designed to cause damage to a computer, server, client, or network."},
	{Term: "Botnet", Definition: "A network of compromised machines controlled remotely to carry out coordinated attacks."},
	{Term: "CVE", Definition: "Common Vulnerabilities and Exposures, a catalog of publicly disclosed security flaws."},
}

// lookupDefinitions returns glossary entries whose term appears anywhere in
// the query, case insensitively. Punctuation around a term does not matter.
func lookupDefinitions(query string) []models.Definition {
	q := strings.ToLower(query)
	var matches []models.Definition
	for _, d := range glossary {
		// match on the bare term, ignoring any parenthetical
		term := strings.ToLower(strings.TrimSpace(strings.SplitN(d.Term, " (", 2)[0]))
		if strings.Contains(q, term) {
			matches = append(matches, d)
		}
	}
	return matches
}
