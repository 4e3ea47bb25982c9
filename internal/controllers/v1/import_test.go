package v1_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"testing"

	v1 "github.com/moneymap/backend/internal/controllers/v1"
	"github.com/moneymap/backend/internal/models"
	"github.com/moneymap/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csvHeader = "title,description,target amount,deadline,category,account,linked amount\n"

// csvUpload builds a multipart request body with the content as the
// uploaded file.
func csvUpload(t *testing.T, filename, content string) (*bytes.Buffer, map[string]string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	require.Nil(t, err)

	_, err = part.Write([]byte(content))
	require.Nil(t, err)
	require.Nil(t, writer.Close())

	return &buf, map[string]string{"Content-Type": writer.FormDataContentType()}
}

func (suite *TestSuiteStandard) TestOptionsImport() {
	recorder := test.Request(suite.T(), http.MethodOptions, "/v1/import", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	assert.Equal(suite.T(), "OPTIONS, POST", recorder.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestImportGoals() {
	_ = suite.createTestAccount(models.Account{
		Name:             "Main Checking",
		AvailableBalance: decimal.NewFromFloat(500),
	})

	content := csvHeader +
		"New car,Down payment,5000,2027-06-01,savings,Main*,300\n" +
		"Emergency fund,,1000,,emergency,,\n"

	body, contentType := csvUpload(suite.T(), "goals.csv", content)

	recorder := test.Request(suite.T(), http.MethodPost, "/v1/import", body, suite.userHeader(), contentType)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.GoalCreateResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	require.Len(suite.T(), response.Data, 2)
	require.NotNil(suite.T(), response.Data[0].Data)
	assert.Equal(suite.T(), "New car", response.Data[0].Data.Title)
	assert.True(suite.T(), response.Data[0].Data.TotalProgress.Equal(decimal.NewFromFloat(300)))
	require.NotNil(suite.T(), response.Data[1].Data)
	assert.Equal(suite.T(), models.CategoryEmergency, response.Data[1].Data.Category)
}

func (suite *TestSuiteStandard) TestImportGoalsRowErrors() {
	_ = suite.createTestAccount(models.Account{
		Name:             "Main Checking",
		AvailableBalance: decimal.NewFromFloat(100),
	})

	content := csvHeader +
		"Boat,,9000,,savings,Broker*,50\n" +
		"Too large,,9000,,savings,Main*,500\n" +
		"Emergency fund,,1000,,emergency,,\n"

	body, contentType := csvUpload(suite.T(), "goals.csv", content)

	recorder := test.Request(suite.T(), http.MethodPost, "/v1/import", body, suite.userHeader(), contentType)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	var response v1.GoalCreateResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	// Lines with errors do not abort the import, the valid line is created
	require.Len(suite.T(), response.Data, 3)
	require.NotNil(suite.T(), response.Data[0].Error)
	assert.Contains(suite.T(), *response.Data[0].Error, "no account matches the account pattern")
	require.NotNil(suite.T(), response.Data[1].Error)
	assert.Contains(suite.T(), *response.Data[1].Error, "available balance")
	assert.NotNil(suite.T(), response.Data[2].Data)
}

func (suite *TestSuiteStandard) TestImportGoalsErrors() {
	brokenDecimal, brokenDecimalType := csvUpload(suite.T(), "goals.csv", csvHeader+"Goal,,not-a-number,,savings,,\n")
	wrongSuffix, wrongSuffixType := csvUpload(suite.T(), "goals.txt", csvHeader)
	noUser, noUserType := csvUpload(suite.T(), "goals.csv", csvHeader)

	tests := []struct {
		name        string
		body        *bytes.Buffer
		headers     []map[string]string
		status      int
		errContains string
	}{
		{"no file", bytes.NewBufferString(""), []map[string]string{suite.userHeader()}, http.StatusBadRequest, "you must send a file"},
		{"wrong suffix", wrongSuffix, []map[string]string{suite.userHeader(), wrongSuffixType}, http.StatusBadRequest, "only supports files of the following types"},
		{"no user header", noUser, []map[string]string{noUserType}, http.StatusBadRequest, "X-User-ID"},
		{"broken line", brokenDecimal, []map[string]string{suite.userHeader(), brokenDecimalType}, http.StatusBadRequest, "error in line 2"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodPost, "/v1/import", tt.body, tt.headers...)
			test.AssertHTTPStatus(t, &recorder, tt.status)

			var response v1.GoalCreateResponse
			test.DecodeResponse(t, &recorder, &response)

			require.NotNil(t, response.Error)
			assert.Contains(t, *response.Error, tt.errContains)
		})
	}
}
