// Package spectrum defines the data model shared by the format readers: a
// mass spectrum as a peak list plus its acquisition metadata, and the
// Source interface every format reader implements.
package spectrum

// Peak is a single centroided peak: a mass-to-charge ratio and its
// intensity.
type Peak struct {
	Mz        float64
	Intensity float64
}

// Spectrum holds one spectrum record as read from a file.
//
// Fields a format does not carry are left at their zero value: DTA files
// have no title or retention time, MGF files have no MS level, and so on.
// Readers report values as written; no charge-state inference or mass
// deconvolution is performed.
type Spectrum struct {
	// ID is the native identifier of the record: the scan number in
	// mzXML/mzData, the title in MGF, the file name in DTA.
	ID string

	// Title is the human-readable description, when the format carries one.
	Title string

	// MSLevel is the MS stage (1 for survey scans, 2 for MS/MS), or 0 when
	// the format does not record it.
	MSLevel int

	// PrecursorMz is the selected precursor mass-to-charge ratio. For DTA
	// this is the (M+H)+ value as written in the file.
	PrecursorMz float64

	// PrecursorIntensity is the precursor's intensity, when recorded.
	PrecursorIntensity float64

	// Charges lists the candidate charge states, signed. Empty when the
	// file does not state any.
	Charges []int

	// RetentionTime is the acquisition time in seconds, or 0 when absent.
	RetentionTime float64

	// Peaks is the centroided peak list in file order.
	Peaks []Peak
}

// Source yields the spectra of an open file one record at a time.
//
// Next returns io.EOF after the last record. Implementations own their
// underlying file handle and are not safe for concurrent use.
type Source interface {
	// Next reads and returns the next spectrum record.
	Next() (*Spectrum, error)

	// Close releases the underlying resources. The Source must not be
	// used afterwards.
	Close() error
}
