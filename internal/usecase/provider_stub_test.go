package usecase

import "context"

// stubProvider serves canned vendor payloads and records call counts.
type stubProvider struct {
	tournaments []ExternalTournament
	teams       map[int64][]ExternalTeam
	squads      map[int64][]ExternalPlayer
	fixtures    map[int64][]ExternalFixture
	scoreboards map[int64]ExternalScoreboard
	deliveries  map[int64][]ExternalDelivery
	careers     map[int64][]ExternalCareerStat

	err             error
	scoreboardCalls int
}

func (p *stubProvider) FetchTournaments(context.Context) ([]ExternalTournament, error) {
	return p.tournaments, p.err
}

func (p *stubProvider) FetchTeams(_ context.Context, tournamentExternalID int64) ([]ExternalTeam, error) {
	return p.teams[tournamentExternalID], p.err
}

func (p *stubProvider) FetchSquad(_ context.Context, _, teamExternalID int64) ([]ExternalPlayer, error) {
	return p.squads[teamExternalID], p.err
}

func (p *stubProvider) FetchFixtures(_ context.Context, tournamentExternalID int64) ([]ExternalFixture, error) {
	return p.fixtures[tournamentExternalID], p.err
}

func (p *stubProvider) FetchScoreboard(_ context.Context, fixtureExternalID int64) (ExternalScoreboard, error) {
	p.scoreboardCalls++
	return p.scoreboards[fixtureExternalID], p.err
}

func (p *stubProvider) FetchDeliveries(_ context.Context, fixtureExternalID int64) ([]ExternalDelivery, error) {
	return p.deliveries[fixtureExternalID], p.err
}

func (p *stubProvider) FetchPlayerCareer(_ context.Context, playerExternalID int64) ([]ExternalCareerStat, error) {
	return p.careers[playerExternalID], p.err
}
