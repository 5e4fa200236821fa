// Package testserver implements a mock Companies House XML Gateway.
package testserver

import (
	"sort"
	"sync"
	"time"
)

// Company is the canned registration data returned for CompanyDataRequest
type Company struct {
	Name         string
	Category     string
	Jurisdiction string
	Trading      bool
	MadeUpDate   string
	NextDueDate  string
	Address      Address
	SICCodes     []string
}

// Address is a registered office address
type Address struct {
	Premise      string
	Street       string
	Thoroughfare string
	PostTown     string
	Postcode     string
	Country      string
}

// Submission is a stored accounts submission
type Submission struct {
	ID            string
	Status        string
	CompanyNumber string
	Data          string
	ReceivedAt    time.Time
}

// Submission status codes
const (
	StatusAccepted = "accepted"
	StatusPending  = "pending"
)

// Data holds the mock gateway's companies and submissions
type Data struct {
	mu          sync.RWMutex
	companies   map[string]Company
	submissions map[string]*Submission
	order       []string
}

// NewData creates a store populated with the default test companies
func NewData() *Data {
	d := &Data{}
	d.Reset()
	return d
}

// Reset drops all submissions and restores the default companies
func (d *Data) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.submissions = make(map[string]*Submission)
	d.order = nil
	d.companies = make(map[string]Company)
	for _, number := range []string{"1234567", "01234567", "12345678"} {
		d.companies[number] = testCompany()
	}
}

func testCompany() Company {
	return Company{
		Name:         "TEST COMPANY LIMITED",
		Category:     "Private Limited Company",
		Jurisdiction: "England/Wales",
		Trading:      false,
		MadeUpDate:   "2023-12-31",
		NextDueDate:  "2024-09-30",
		Address: Address{
			Premise:      "123",
			Street:       "Test Street",
			Thoroughfare: "Test Area",
			PostTown:     "Test Town",
			Postcode:     "TE5 7ST",
			Country:      "United Kingdom",
		},
		SICCodes: []string{"62012", "62020"},
	}
}

// Company returns the company registered under number
func (d *Data) Company(number string) (Company, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	c, ok := d.companies[number]
	return c, ok
}

// AddCompany adds or replaces a company
func (d *Data) AddCompany(number string, c Company) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.companies[number] = c
}

// AddSubmission stores a submission, replacing any earlier one with the same id
func (d *Data) AddSubmission(id, status, companyNumber, data string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.submissions[id]; !exists {
		d.order = append(d.order, id)
	}
	d.submissions[id] = &Submission{
		ID:            id,
		Status:        status,
		CompanyNumber: companyNumber,
		Data:          data,
		ReceivedAt:    time.Now(),
	}
}

// Submission returns a copy of the submission with the given id
func (d *Data) Submission(id string) (Submission, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	s, ok := d.submissions[id]
	if !ok {
		return Submission{}, false
	}
	return *s, true
}

// Submissions returns copies of all submissions in arrival order
func (d *Data) Submissions() []Submission {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Submission, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, *d.submissions[id])
	}
	return out
}

// UpdateSubmissionStatus changes the status of a stored submission
func (d *Data) UpdateSubmissionStatus(id, status string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, ok := d.submissions[id]
	if !ok {
		return false
	}
	s.Status = status
	return true
}

// CompanyNumbers returns the registered company numbers, sorted
func (d *Data) CompanyNumbers() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	numbers := make([]string, 0, len(d.companies))
	for n := range d.companies {
		numbers = append(numbers, n)
	}
	sort.Strings(numbers)
	return numbers
}
