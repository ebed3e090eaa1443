package reporter

// takeoverMessagesPL translates the dns_reaper finding descriptions.
var takeoverMessagesPL = []translationPair{
	{
		original:   " The defined domain has a CNAME record configured but the CNAME is not registered. You should look to see if you can register this CNAME.",
		translated: "Domena ma skonfigurowany rekord CNAME ale domena docelowa tego rekordu nie jest zarejestrowana. Prosimy o weryfikację, czy nie jest możliwe przejęcie domeny przez zarejestrowanie domeny docelowej rekordu CNAME.",
	},
	{
		original:   " The defined domain has CNAME records configured for getresponse and but a web request shows the domain is unclaimed. An attacker can register this domain on getresponse and serve their own web content.",
		translated: "Domena ma skonfigurowany rekord CNAME skierowany do narzędzia GetResponse, ale domena docelowa jest wolna. Atakujący może zarejestrować taką domenę w serwisie GetResponse aby umieścić tam swoje treści.",
	},
	{
		original:   " The defined domain has CNAME records configured for Netlify and but a web request shows the domain is unclaimed. An attacker can register this domain on Netlify and serve their own web content.",
		translated: "Domena ma skonfigurowany rekord CNAME skierowany do narzędzia Netlify, ale domena docelowa jest wolna. Atakujący może zarejestrować taką domenę w serwisie Netlify aby umieścić tam swoje treści.",
	},
	{
		original:   " The defined domain has A/AAAA records configured for Github Pages and but a web request shows the domain is unclaimed. An attacker can register this domain on Github Pages and serve their own web content.",
		translated: "Domena ma skonfigurowane rekordy A/AAAA kierujące do serwisu GitHub Pages, ale domena docelowa jest wolna. Atakujący może zarejestrować taką domenę w serwisie GitHub Pages aby umieścić tam swoje treści.",
	},
	{
		original:   " The defined domain has CNAME records configured for wordpress.com and but a web request shows the domain is unclaimed. An attacker can register this domain on wordpress.com and serve their own web content.",
		translated: "Domena ma skonfigurowane rekordy CNAME kierujące do serwisu wordpress.com, ale domena docelowa jest wolna. Atakujący może zarejestrować taką domenę w serwisie wordpress.com aby umieścić tam swoje treści.",
	},
	{
		original:   " The defined domain has he.net NS records configured but these nameservers do not host a zone for this domain. An attacker can register this domain with he.net so they get provisioned onto a matching nameserver.",
		translated: "Domena ma skonfigurowane rekordy NS kierujące do serwisu he.net, ale domena docelowa jest wolna. Atakujący może zarejestrować taką domenę w serwisie he.net aby umieścić tam swoje treści.",
	},
	{
		original:   " The defined domain has CNAME records configured for Microsoft Azure and but these records do not resolve. An attacker can register this domain on Microsoft Azure and serve their own web content.",
		translated: "Domena ma skonfigurowane rekordy CNAME kierujące do serwisu Microsoft Azure, ale domena docelowa nie istnieje. Atakujący może zarejestrować taką domenę w serwisie Microsoft Azure oraz umieścić tam swoje treści.",
	},
}
