package email

import (
	"fmt"
	"html"
	"strings"
)

// RequestReceived tells a recipient that someone is interested in connecting.
func RequestReceived(to, senderName string, superliked bool, appURL string) Message {
	verb := "is interested in connecting with you"
	if superliked {
		verb = "superliked your profile"
	}
	subject := fmt.Sprintf("%s %s on Homio", senderName, verb)
	return Message{
		To:      to,
		Subject: subject,
		HTML: fmt.Sprintf("<h1>New connection request</h1><p>%s %s.</p><p><a href=\"%s\">Review it on Homio</a></p>",
			html.EscapeString(senderName), verb, html.EscapeString(appURL)),
		Text: fmt.Sprintf("%s %s. Review it on Homio: %s", senderName, verb, appURL),
	}
}

// RequestAccepted tells the original sender their request was accepted.
func RequestAccepted(to, reviewerName, appURL string) Message {
	return Message{
		To:      to,
		Subject: fmt.Sprintf("%s accepted your connection request", reviewerName),
		HTML: fmt.Sprintf("<h1>You have a new connection</h1><p>%s accepted your request.</p><p><a href=\"%s\">Say hello on Homio</a></p>",
			html.EscapeString(reviewerName), html.EscapeString(appURL)),
		Text: fmt.Sprintf("%s accepted your request. Say hello on Homio: %s", reviewerName, appURL),
	}
}

// PendingDigest summarizes the requests a user received in the previous day.
func PendingDigest(to string, pending int, appURL string) Message {
	noun := "request"
	if pending != 1 {
		noun = "requests"
	}
	line := fmt.Sprintf("You received %d new connection %s yesterday on Homio.", pending, noun)
	return Message{
		To:      to,
		Subject: "You have pending connection requests on Homio",
		HTML: fmt.Sprintf("<p>%s</p><p><a href=\"%s\">Log in and review them</a></p>",
			line, html.EscapeString(appURL)),
		Text: strings.Join([]string{line, "Log in and review them: " + appURL}, "\n\n"),
	}
}
