package game

// Verdict is the outcome of an accusation.
type Verdict struct {
	Correct bool
	Message string
}

// Result maps the verdict onto the game result.
func (v Verdict) Result() Result {
	if v.Correct {
		return ResultWin
	}
	return ResultLose
}

// Verify compares accusedID with the case solution. The message is chosen
// by correctness alone.
func Verify(truth CrimeTruth, accusedID string, msgs Messages) Verdict {
	if truth.MurdererID == accusedID {
		return Verdict{Correct: true, Message: msgs.VerdictCorrect}
	}
	return Verdict{Correct: false, Message: msgs.VerdictWrong}
}
