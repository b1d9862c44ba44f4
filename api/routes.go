package api

const (
	// PingEndpoint is the endpoint for checking the API status
	PingEndpoint = "/ping"

	// ElectionURLParam is the URL parameter carrying the hex election ID.
	ElectionURLParam = "electionId"
	// AddressURLParam is the URL parameter carrying a base58 identity.
	AddressURLParam = "address"

	// ElectionsEndpoint is the endpoint to create and list elections
	ElectionsEndpoint = "/elections"
	// ElectionEndpoint is the endpoint to get the election info
	ElectionEndpoint = "/elections/{" + ElectionURLParam + "}"
	// ElectionStartEndpoint opens the election and publishes the commitment root
	ElectionStartEndpoint = ElectionEndpoint + "/start"
	// ElectionCloseEndpoint closes the election
	ElectionCloseEndpoint = ElectionEndpoint + "/close"
	// ElectionAdminsEndpoint adds an admin to the election
	ElectionAdminsEndpoint = ElectionEndpoint + "/admins"

	// WhitelistEndpoint lists and extends the whitelist of a private election
	WhitelistEndpoint = ElectionEndpoint + "/whitelist"
	// WhitelistAddressEndpoint removes an identity from the whitelist
	WhitelistAddressEndpoint = WhitelistEndpoint + "/{" + AddressURLParam + "}"
	// ProofEndpoint returns the inclusion proof of an identity in the whitelist
	ProofEndpoint = ElectionEndpoint + "/proof/{" + AddressURLParam + "}"

	// VotesEndpoint is the endpoint for submitting a vote
	VotesEndpoint = ElectionEndpoint + "/votes"
	// VotersEndpoint lists the identities that voted
	VotersEndpoint = ElectionEndpoint + "/voters"
	// VoterEndpoint returns the voter record, ballot and credential of a voter
	VoterEndpoint = VotersEndpoint + "/{" + AddressURLParam + "}"
)

// EndpointWithParam replaces the URL parameter of the endpoint with value.
func EndpointWithParam(endpoint, param, value string) string {
	return replaceParam(endpoint, "{"+param+"}", value)
}
