package schedule

import (
	"fmt"

	"github.com/samber/lo"
)

// ValidateBatch re-derives the batch invariants on a decoded schedule
// without consulting the model: every interval spans its resolved duration,
// the input → buffer → output chain is seamless, volume slots respect the
// buffer ceiling, and no two buffer occupations overlap in both time and
// volume. Violations are internal inconsistencies.
func ValidateBatch(sched *BatchSchedule, p *BatchProblem) error {
	if len(sched.Entries) != p.Batches {
		return fmt.Errorf("%w: schedule covers %d batches, problem declares %d",
			ErrInternalInconsistency, len(sched.Entries), p.Batches)
	}

	inputNames := lo.Map(p.Inputs, func(o TransferOption, _ int) string { return o.Name })
	outputNames := lo.Map(p.Outputs, func(o TransferOption, _ int) string { return o.Name })

	for _, entry := range sched.Entries {
		if !lo.Contains(inputNames, entry.Input) {
			return fmt.Errorf("%w: batch %d resolved unknown input option %q", ErrInternalInconsistency, entry.Batch, entry.Input)
		}
		if !lo.Contains(outputNames, entry.Output) {
			return fmt.Errorf("%w: batch %d resolved unknown output option %q", ErrInternalInconsistency, entry.Batch, entry.Output)
		}
		if entry.InputEnd-entry.InputStart != entry.InputDuration {
			return fmt.Errorf("%w: batch %d input window spans %d, duration is %d",
				ErrInternalInconsistency, entry.Batch, entry.InputEnd-entry.InputStart, entry.InputDuration)
		}
		if entry.OutputEnd-entry.OutputStart != entry.OutputDuration {
			return fmt.Errorf("%w: batch %d output window spans %d, duration is %d",
				ErrInternalInconsistency, entry.Batch, entry.OutputEnd-entry.OutputStart, entry.OutputDuration)
		}
		if entry.BufferEnd <= entry.BufferStart {
			return fmt.Errorf("%w: batch %d buffer window [%d, %d) is empty",
				ErrInternalInconsistency, entry.Batch, entry.BufferStart, entry.BufferEnd)
		}
		if entry.BufferStart != entry.InputEnd || entry.OutputStart != entry.BufferEnd {
			return fmt.Errorf("%w: batch %d chain broken: input ends %d, buffer [%d, %d), output starts %d",
				ErrInternalInconsistency, entry.Batch, entry.InputEnd, entry.BufferStart, entry.BufferEnd, entry.OutputStart)
		}
		if entry.VolumeLow < 0 || entry.VolumeHigh > p.BufferCeiling || entry.VolumeHigh-entry.VolumeLow != p.TransferVolume {
			return fmt.Errorf("%w: batch %d volume slot [%d, %d) violates volume %d within ceiling %d",
				ErrInternalInconsistency, entry.Batch, entry.VolumeLow, entry.VolumeHigh, p.TransferVolume, p.BufferCeiling)
		}
		if entry.OutputEnd > p.TimeCeiling {
			return fmt.Errorf("%w: batch %d ends at %d past the time ceiling %d",
				ErrInternalInconsistency, entry.Batch, entry.OutputEnd, p.TimeCeiling)
		}
	}

	//** 2-D exclusion: no pair may overlap in time and volume simultaneously
	for i := range sched.Entries {
		for j := i + 1; j < len(sched.Entries); j++ {
			a, b := sched.Entries[i], sched.Entries[j]
			timeOverlap := a.BufferStart < b.BufferEnd && b.BufferStart < a.BufferEnd
			volumeOverlap := a.VolumeLow < b.VolumeHigh && b.VolumeLow < a.VolumeHigh
			if timeOverlap && volumeOverlap {
				return fmt.Errorf("%w: batches %d and %d share buffer volume [%d, %d)×[%d, %d) concurrently",
					ErrInternalInconsistency, a.Batch, b.Batch, a.VolumeLow, a.VolumeHigh, b.VolumeLow, b.VolumeHigh)
			}
		}
	}

	if sched.Makespan != sched.Entries[p.Batches-1].BufferEnd {
		return fmt.Errorf("%w: reported makespan %d, last buffer occupation ends at %d",
			ErrInternalInconsistency, sched.Makespan, sched.Entries[p.Batches-1].BufferEnd)
	}

	return nil
}
