package e2e

import (
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// E2ETestSuite provides a test suite for end-to-end tests
type E2ETestSuite struct {
	suite.Suite
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
	expect  playwright.PlaywrightAssertions
}

// SetupSuite runs once before all tests
func (suite *E2ETestSuite) SetupSuite() {
	pw, err := playwright.Run()
	require.NoError(suite.T(), err, "could not launch playwright")
	suite.pw = pw

	browser, err := pw.Chromium.Launch()
	require.NoError(suite.T(), err, "could not launch chromium")
	suite.browser = browser

	suite.expect = playwright.NewPlaywrightAssertions()
}

// TearDownSuite runs once after all tests
func (suite *E2ETestSuite) TearDownSuite() {
	if suite.browser != nil {
		suite.browser.Close()
	}
	if suite.pw != nil {
		suite.pw.Stop()
	}
}

// SetupTest runs before each test
func (suite *E2ETestSuite) SetupTest() {
	page, err := suite.browser.NewPage()
	require.NoError(suite.T(), err, "could not create page")
	suite.page = page

	_, err = suite.page.Goto(appURL + "/login")
	require.NoError(suite.T(), err, "could not navigate to app")
}

// TearDownTest runs after each test
func (suite *E2ETestSuite) TearDownTest() {
	if suite.page != nil {
		suite.page.Close()
	}
}

// login signs in as the seeded admin account and lands on the list.
func (suite *E2ETestSuite) login() {
	err := suite.expect.Locator(suite.page.Locator(".login-form")).ToBeVisible()
	require.NoError(suite.T(), err, "login form not visible")

	err = suite.page.Locator("input[name=username]").Fill("testuser")
	require.NoError(suite.T(), err, "failed to fill username")

	err = suite.page.Locator("input[name=password]").Fill("testpass123")
	require.NoError(suite.T(), err, "failed to fill password")

	err = suite.page.Locator(".login-btn").Click()
	require.NoError(suite.T(), err, "failed to click login")

	err = suite.expect.Locator(suite.page.Locator(".list-screen")).ToBeVisible()
	require.NoError(suite.T(), err, "did not redirect to expenses page after login")
}

func (suite *E2ETestSuite) addExpense(description, amount, date, category string) {
	_, err := suite.page.Goto(appURL + "/add")
	require.NoError(suite.T(), err, "could not open add form")

	err = suite.expect.Locator(suite.page.Locator("#expense-form")).ToBeVisible()
	require.NoError(suite.T(), err, "expense form not visible")

	err = suite.page.Locator("input[name=description]").Fill(description)
	require.NoError(suite.T(), err, "failed to fill description")

	err = suite.page.Locator("input[name=amount]").Fill(amount)
	require.NoError(suite.T(), err, "failed to fill amount")

	err = suite.page.Locator("input[name=date]").Fill(date)
	require.NoError(suite.T(), err, "failed to fill date")

	err = suite.page.Locator("input[name=category]").Fill(category)
	require.NoError(suite.T(), err, "failed to fill category")

	err = suite.page.Locator("button.submit").Click()
	require.NoError(suite.T(), err, "failed to submit expense")
}

func (suite *E2ETestSuite) TestCompleteUserFlow() {
	suite.login()

	// Create
	suite.addExpense("Lunch Test", "12.50", "2024-05-10", "Food")

	err := suite.expect.Locator(suite.page.Locator(".flash-success")).ToContainText("Expense added successfully!")
	require.NoError(suite.T(), err, "missing success flash")

	err = suite.expect.Locator(suite.page.Locator(".expense-item")).ToHaveCount(1)
	require.NoError(suite.T(), err, "expense item count mismatch")

	item := suite.page.Locator(".expense-item").First()
	err = suite.expect.Locator(item).ToContainText("Lunch Test")
	require.NoError(suite.T(), err, "description mismatch")
	err = suite.expect.Locator(item).ToContainText("12.50")
	require.NoError(suite.T(), err, "amount mismatch")

	// Edit
	err = item.Locator("a:text-is('Edit')").Click()
	require.NoError(suite.T(), err, "failed to open edit form")
	err = suite.page.Locator("input[name=description]").Fill("Team Lunch")
	require.NoError(suite.T(), err, "failed to edit description")
	err = suite.page.Locator("button.submit").Click()
	require.NoError(suite.T(), err, "failed to save edit")

	err = suite.expect.Locator(suite.page.Locator(".expense-item")).ToContainText("Team Lunch")
	require.NoError(suite.T(), err, "edited description missing")

	// Delete (accept the confirm dialog)
	suite.page.OnDialog(func(d playwright.Dialog) { d.Accept() })
	err = suite.page.Locator(".expense-item a:text-is('Delete')").Click()
	require.NoError(suite.T(), err, "failed to delete expense")

	err = suite.expect.Locator(suite.page.Locator(".empty")).ToBeVisible()
	require.NoError(suite.T(), err, "list should be empty after delete")
}

func (suite *E2ETestSuite) TestDateFilter() {
	suite.login()

	suite.addExpense("January Rent", "800", "2024-01-01", "Housing")
	suite.addExpense("June Concert", "45", "2024-06-15", "Fun")

	_, err := suite.page.Goto(appURL + "/expenses?start_date=2024-06-01&end_date=2024-06-30")
	require.NoError(suite.T(), err, "could not open filtered list")

	err = suite.expect.Locator(suite.page.Locator(".expense-item")).ToHaveCount(1)
	require.NoError(suite.T(), err, "filter should keep a single row")
	err = suite.expect.Locator(suite.page.Locator(".expense-item")).ToContainText("June Concert")
	require.NoError(suite.T(), err, "filtered row mismatch")
}

func (suite *E2ETestSuite) TestDashboardRenders() {
	suite.login()

	_, err := suite.page.Goto(appURL + "/dashboard")
	require.NoError(suite.T(), err, "could not open dashboard")

	err = suite.expect.Locator(suite.page.Locator("#categoryChart")).ToBeVisible()
	require.NoError(suite.T(), err, "category chart missing")
	err = suite.expect.Locator(suite.page.Locator("#monthlyChart")).ToBeVisible()
	require.NoError(suite.T(), err, "monthly chart missing")
}

// TestE2ESuite runs the e2e test suite
func TestE2ESuite(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}
