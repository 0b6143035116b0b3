package steps

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"vehicle-dashboard/test/functional/driver"

	"github.com/cucumber/godog"
	"github.com/stretchr/testify/require"
)

type FeatureContext struct {
	env          *driver.Environment
	apiDriver    *driver.APIDriver
	response     *http.Response
	responseData map[string]any
	vehicleID    string
	trackingID   string
	require      *require.Assertions
	t            godog.TestingT
}

func NewFeatureContext(env *driver.Environment) *FeatureContext {
	return &FeatureContext{
		env:       env,
		apiDriver: env.API,
	}
}

func (fc *FeatureContext) RegisterSteps(ctx *godog.ScenarioContext) {
	// Generic steps
	ctx.Then(`^the response status code should be (\d+)$`, fc.theResponseStatusCodeShouldBe)
	ctx.Then(`^the error kind should be "([^"]*)"$`, fc.theErrorKindShouldBe)
	ctx.When(`^I call the healthz endpoint$`, fc.iCallTheHealthzEndpoint)

	// Key steps
	ctx.Given(`^keys are stored for vehicle "([^"]*)"$`, fc.keysAreStoredForVehicle)
	ctx.Given(`^no keys are stored for vehicle "([^"]*)"$`, fc.noKeysAreStoredForVehicle)
	ctx.When(`^I store keys for vehicle "([^"]*)" with private key "([^"]*)"$`, fc.iStoreKeysForVehicleWithPrivateKey)
	ctx.When(`^I get the keys of vehicle "([^"]*)"$`, fc.iGetTheKeysOfVehicle)
	ctx.When(`^I clear the keys of vehicle "([^"]*)"$`, fc.iClearTheKeysOfVehicle)
	ctx.Then(`^the private key should be masked and end with "([^"]*)"$`, fc.thePrivateKeyShouldBeMaskedAndEndWith)

	// Command steps
	ctx.Given(`^the backend reports command status (\d+)$`, fc.theBackendReportsCommandStatus)
	ctx.Given(`^the backend reports a battery level of (\d+)$`, fc.theBackendReportsABatteryLevelOf)
	ctx.When(`^I submit the command "([^"]*)" to vehicle "([^"]*)"$`, fc.iSubmitTheCommandToVehicle)
	ctx.Then(`^the response should contain a tracking id$`, fc.theResponseShouldContainATrackingID)
	ctx.Then(`^the backend should have received the command "([^"]*)"$`, fc.theBackendShouldHaveReceivedTheCommand)
	ctx.Then(`^the command should eventually be "([^"]*)"$`, fc.theCommandShouldEventuallyBe)
	ctx.When(`^I get the command "([^"]*)"$`, fc.iGetTheCommand)

	// Vehicle state steps
	ctx.When(`^I refresh the state of vehicle "([^"]*)"$`, fc.iRefreshTheStateOfVehicle)
	ctx.Then(`^the cached battery level of vehicle "([^"]*)" should eventually be (\d+)$`, fc.theCachedBatteryLevelShouldEventuallyBe)

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		fc.t = godog.T(ctx)
		fc.require = require.New(fc.t)

		fc.reset()
		return ctx, nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if fc.response != nil {
			fc.response.Body.Close()
		}
		return ctx, err
	})
}

func (fc *FeatureContext) reset() {
	fc.response = nil
	fc.responseData = nil
	fc.vehicleID = ""
	fc.trackingID = ""
	fc.env.Backend.Reset()
}

func (fc *FeatureContext) setResponse(response *http.Response, err error) error {
	if err != nil {
		return err
	}
	if fc.response != nil {
		fc.response.Body.Close()
	}
	fc.response = response
	fc.responseData = nil
	return nil
}

func (fc *FeatureContext) decodeBody(body io.ReadCloser, target any) error {
	return json.NewDecoder(body).Decode(target)
}

// body decodes the current response once.
func (fc *FeatureContext) body() map[string]any {
	if fc.responseData == nil {
		var data map[string]any
		fc.require.NoError(fc.decodeBody(fc.response.Body, &data))
		fc.responseData = data
	}
	return fc.responseData
}
