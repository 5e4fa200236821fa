package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/sirosfoundation/go-chfiling/pkg/gateway"
)

// printer writes styled output. Styles degrade to plain text when w is not
// a terminal.
type printer struct {
	w            io.Writer
	labelStyle   lipgloss.Style
	headingStyle lipgloss.Style
	okStyle      lipgloss.Style
	dimStyle     lipgloss.Style
	errorStyle   lipgloss.Style
	hintStyle    lipgloss.Style
}

func newPrinter(w io.Writer) *printer {
	r := lipgloss.NewRenderer(w)
	return &printer{
		w:            w,
		labelStyle:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		headingStyle: r.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		okStyle:      r.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		dimStyle:     r.NewStyle().Foreground(lipgloss.Color("241")),
		errorStyle:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		hintStyle:    r.NewStyle().Foreground(lipgloss.Color("3")),
	}
}

func (p *printer) field(label, value string) {
	fmt.Fprintf(p.w, "%s %s\n", p.labelStyle.Render(label+":"), value)
}

func (p *printer) subfield(label, value string) {
	fmt.Fprintf(p.w, "  %s %s\n", p.labelStyle.Render(label+":"), value)
}

func (p *printer) heading(text string) {
	fmt.Fprintln(p.w, p.headingStyle.Render(text+":"))
}

func (p *printer) success(text string) {
	fmt.Fprintln(p.w, p.okStyle.Render(text))
}

func (p *printer) dim(text string) {
	fmt.Fprintln(p.w, p.dimStyle.Render(text))
}

// reportError prints err and, for gateway failures, what to check next
func reportError(w io.Writer, err error) {
	p := newPrinter(w)
	fmt.Fprintf(w, "%s %v\n", p.errorStyle.Render("Error:"), err)
	if h := errorHint(err); h != "" {
		fmt.Fprintln(w, p.hintStyle.Render(h))
	}
}

func errorHint(err error) string {
	var gerr *gateway.Error
	if !errors.As(err, &gerr) {
		return ""
	}

	switch gerr.Kind {
	case gateway.KindAuthentication:
		return "Check your configuration to ensure the company number and authentication code are correct."
	case gateway.KindRequest:
		return "Request could not be completed. Service problems suspected. Try again later?"
	case gateway.KindAccountsCorruption:
		return "Suspected error in submitted account data."
	case gateway.KindValidation:
		return "Suspected error in submitted message. Failed validation check?"
	case gateway.KindPrivacy:
		return "Failure in security transport! Host certificate may be invalid."
	case gateway.KindGeneric:
		return ""
	default:
		return ""
	}
}
