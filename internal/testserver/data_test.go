package testserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestData_CannedCompanies(t *testing.T) {
	d := NewData()

	assert.Equal(t, []string{"01234567", "1234567", "12345678"}, d.CompanyNumbers())

	c, ok := d.Company("12345678")
	require.True(t, ok)
	assert.Equal(t, "TEST COMPANY LIMITED", c.Name)
	assert.Equal(t, []string{"62012", "62020"}, c.SICCodes)

	_, ok = d.Company("nope")
	assert.False(t, ok)
}

func TestData_Submissions(t *testing.T) {
	d := NewData()

	d.AddSubmission("S00002", StatusAccepted, "12345678", "")
	d.AddSubmission("S00001", StatusPending, "12345678", "")
	d.AddSubmission("S00002", StatusAccepted, "01234567", "")

	subs := d.Submissions()
	require.Len(t, subs, 2)
	assert.Equal(t, "S00002", subs[0].ID, "arrival order kept on replace")
	assert.Equal(t, "01234567", subs[0].CompanyNumber)

	assert.True(t, d.UpdateSubmissionStatus("S00001", "rejected"))
	assert.False(t, d.UpdateSubmissionStatus("S09999", "rejected"))
	sub, _ := d.Submission("S00001")
	assert.Equal(t, "rejected", sub.Status)
}

func TestData_Reset(t *testing.T) {
	d := NewData()
	d.AddSubmission("S00001", StatusAccepted, "12345678", "")
	d.AddCompany("42", Company{Name: "OTHER LTD"})

	d.Reset()

	assert.Empty(t, d.Submissions())
	_, ok := d.Company("42")
	assert.False(t, ok)
}
