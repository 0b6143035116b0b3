package steps

func (fc *FeatureContext) theResponseStatusCodeShouldBe(code int) error {
	fc.require.Equal(code, fc.response.StatusCode, "Unexpected status code")
	return nil
}

func (fc *FeatureContext) theErrorKindShouldBe(kind string) error {
	fc.require.Equal(kind, fc.body()["kind"], "Unexpected error kind")
	fc.require.NotEmpty(fc.body()["message"], "Error message should be present")
	return nil
}

func (fc *FeatureContext) iCallTheHealthzEndpoint() error {
	return fc.setResponse(fc.apiDriver.GetHealthz())
}
