package audio

import (
	"fmt"

	"github.com/handlebridge/bridge/pkg/core"
)

// Flag indexes the engine's named audio flags.
type Flag int

const (
	FlagActivateSwitchWheelAudio Flag = iota
	FlagAllowCutsceneOverScreenFade
	FlagAllowForceRadioAfterRetune
	FlagAllowPainAndAmbientSpeechToPlayDuringCutscene
	FlagAllowPlayerAIOnMission
	FlagAllowPoliceScannerWhenPlayerHasNoControl
	FlagAllowRadioDuringSwitch
	FlagAllowRadioOverScreenFade
	FlagAllowScoreAndRadio
	FlagAllowScriptedSpeechInSlowMo
	FlagAvoidMissionCompleteDelay
	FlagDisableAbortConversationForDeathAndInjury
	FlagDisableAbortConversationForRagdoll
	FlagDisableBarks
	FlagDisableFlightMusic
	FlagDisableReplayScriptStreamRecording
	FlagEnableHeadsetBeep
	FlagForceConversationInterrupt
	FlagForceSeamlessRadioSwitch
	FlagForceSniperAudio
	FlagFrontendRadioDisabled
	FlagHoldMissionCompleteWhenPrepared
	FlagIsDirectorModeActive
	FlagIsPlayerOnMissionForSpeech
	FlagListenerReverbDisabled
	FlagLoadMPData
	FlagMobileRadioInGame
	FlagOnlyAllowScriptTriggerPoliceScanner
	FlagPlayMenuMusic
	FlagPoliceScannerDisabled
	FlagScriptedConvListenerMaySpeak
	FlagSpeechDucksScore
	FlagSuppressPlayerScubaBreathing
	FlagWantedMusicDisabled
	FlagWantedMusicOnMission
)

var flagNames = [...]string{
	"ActivateSwitchWheelAudio",
	"AllowCutsceneOverScreenFade",
	"AllowForceRadioAfterRetune",
	"AllowPainAndAmbientSpeechToPlayDuringCutscene",
	"AllowPlayerAIOnMission",
	"AllowPoliceScannerWhenPlayerHasNoControl",
	"AllowRadioDuringSwitch",
	"AllowRadioOverScreenFade",
	"AllowScoreAndRadio",
	"AllowScriptedSpeechInSlowMo",
	"AvoidMissionCompleteDelay",
	"DisableAbortConversationForDeathAndInjury",
	"DisableAbortConversationForRagdoll",
	"DisableBarks",
	"DisableFlightMusic",
	"DisableReplayScriptStreamRecording",
	"EnableHeadsetBeep",
	"ForceConversationInterrupt",
	"ForceSeamlessRadioSwitch",
	"ForceSniperAudio",
	"FrontendRadioDisabled",
	"HoldMissionCompleteWhenPrepared",
	"IsDirectorModeActive",
	"IsPlayerOnMissionForSpeech",
	"ListenerReverbDisabled",
	"LoadMPData",
	"MobileRadioInGame",
	"OnlyAllowScriptTriggerPoliceScanner",
	"PlayMenuMusic",
	"PoliceScannerDisabled",
	"ScriptedConvListenerMaySpeak",
	"SpeechDucksScore",
	"SuppressPlayerScubaBreathing",
	"WantedMusicDisabled",
	"WantedMusicOnMission",
}

// NumFlags is the number of known audio flags.
const NumFlags = len(flagNames)

// Name returns the engine name of f.
func (f Flag) Name() (string, error) {
	if f < 0 || int(f) >= len(flagNames) {
		return "", fmt.Errorf("audio flag %d: %w", int(f), core.ErrOutOfRange)
	}
	return flagNames[f], nil
}

func (f Flag) String() string {
	name, err := f.Name()
	if err != nil {
		return fmt.Sprintf("Flag(%d)", int(f))
	}
	return name
}
