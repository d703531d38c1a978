// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package trend

// eventVerbs is the fixed list of action-verb inflections recognized by
// the Event-Phrase Detector, spanning legislative, executive, judicial,
// law-enforcement, diplomatic, conflict, economic, and general
// categories. This is data, not logic: extend the list
// here, never by adding branches to the detector.
var eventVerbs = []string{
	// legislative
	"pass", "passes", "passed", "passing",
	"vote", "votes", "voted", "voting",
	"reject", "rejects", "rejected", "rejecting",
	"approve", "approves", "approved", "approving",
	"block", "blocks", "blocked", "blocking",
	"repeal", "repeals", "repealed", "repealing",
	"introduce", "introduces", "introduced", "introducing",
	"filibuster", "filibusters", "filibustered", "filibustering",
	"table", "tables", "tabled", "tabling",
	"amend", "amends", "amended", "amending",
	// executive
	"sign", "signs", "signed", "signing",
	"order", "orders", "ordered", "ordering",
	"veto", "vetoes", "vetoed", "vetoing",
	"appoint", "appoints", "appointed", "appointing",
	"nominate", "nominates", "nominated", "nominating",
	"fire", "fires", "fired", "firing",
	"resign", "resigns", "resigned", "resigning",
	"announce", "announces", "announced", "announcing",
	"propose", "proposes", "proposed", "proposing",
	"unveil", "unveils", "unveiled", "unveiling",
	// judicial
	"rule", "rules", "ruled", "ruling",
	"sue", "sues", "sued", "suing",
	"convict", "convicts", "convicted", "convicting",
	"acquit", "acquits", "acquitted", "acquitting",
	"sentence", "sentences", "sentenced", "sentencing",
	"indict", "indicts", "indicted", "indicting",
	"dismiss", "dismisses", "dismissed", "dismissing",
	"uphold", "upholds", "upheld", "upholding",
	"overturn", "overturns", "overturned", "overturning",
	"appeal", "appeals", "appealed", "appealing",
	// law enforcement
	"arrest", "arrests", "arrested", "arresting",
	"charge", "charges", "charged", "charging",
	"raid", "raids", "raided", "raiding",
	"seize", "seizes", "seized", "seizing",
	"detain", "detains", "detained", "detaining",
	"investigate", "investigates", "investigated", "investigating",
	"search", "searches", "searched", "searching",
	// diplomatic
	"negotiate", "negotiates", "negotiated", "negotiating",
	"sanction", "sanctions", "sanctioned", "sanctioning",
	"meet", "meets", "met", "meeting",
	"visit", "visits", "visited", "visiting",
	"withdraw", "withdraws", "withdrew", "withdrawing",
	"recall", "recalls", "recalled", "recalling",
	"expel", "expels", "expelled", "expelling",
	// conflict
	"attack", "attacks", "attacked", "attacking",
	"strike", "strikes", "struck", "striking",
	"bomb", "bombs", "bombed", "bombing",
	"invade", "invades", "invaded", "invading",
	"retaliate", "retaliates", "retaliated", "retaliating",
	"kill", "kills", "killed", "killing",
	"shoot", "shoots", "shot", "shooting",
	"clash", "clashes", "clashed", "clashing",
	"ceasefire", "ceasefires", "ceasefired",
	// economic
	"hike", "hikes", "hiked", "hiking",
	"cut", "cuts", "cutting",
	"raise", "raises", "raised", "raising",
	"lower", "lowers", "lowered", "lowering",
	"crash", "crashes", "crashed", "crashing",
	"surge", "surges", "surged", "surging",
	"plunge", "plunges", "plunged", "plunging",
	"acquire", "acquires", "acquired", "acquiring",
	"merge", "merges", "merged", "merging",
	"default", "defaults", "defaulted", "defaulting",
	"layoff", "lays off", "laid off",
	// general
	"launch", "launches", "launched", "launching",
	"file", "files", "filed", "filing",
	"release", "releases", "released", "releasing",
	"confirm", "confirms", "confirmed", "confirming",
	"deny", "denies", "denied", "denying",
	"threaten", "threatens", "threatened", "threatening",
	"warn", "warns", "warned", "warning",
	"resume", "resumes", "resumed", "resuming",
	"suspend", "suspends", "suspended", "suspending",
	"extend", "extends", "extended", "extending",
	"delay", "delays", "delayed", "delaying",
	"cancel", "cancels", "cancelled", "canceling",
	"recall", "recalls", "recalled", "recalling",
	"ban", "bans", "banned", "banning",
	"lift", "lifts", "lifted", "lifting",
}

// eventNouns is the fixed list of event nouns recognized alongside the
// verb list — nominalized events that rarely co-occur with an inflected
// verb in a short headline but still denote a discrete newsworthy act.
var eventNouns = []string{
	"ruling", "indictment", "ban", "attack", "strike", "raid", "arrest",
	"verdict", "sentencing", "acquittal", "ceasefire", "resignation",
	"nomination", "veto", "sanction", "sanctions", "merger", "acquisition",
	"bankruptcy", "default", "layoffs", "shutdown", "recall", "explosion",
	"shooting", "bombing", "coup", "impeachment", "filibuster", "summit",
	"crash", "collapse", "outbreak", "recession", "earthquake", "hurricane",
	"wildfire", "flood", "blackout", "breach", "hack", "leak", "scandal",
}
