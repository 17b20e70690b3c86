package imap

import (
	"fmt"
)

// FolderStats represents statistics for a folder
type FolderStats struct {
	Name   string
	Count  int
	MaxUID int
	Error  error
}

// GetFolders retrieves the list of available folders
func (d *Dialer) GetFolders() (folders []string, err error) {
	folders = make([]string, 0)
	_, err = d.Exec(`LIST "" "*"`, false, RetryCount, func(resp UntaggedResponse) error {
		if resp.Type != TokenLIST {
			return nil
		}
		l := resp.Data.(List)
		folders = append(folders, string(l.Mailbox))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return folders, nil
}

// ExamineFolder selects a folder in read-only mode
func (d *Dialer) ExamineFolder(folder string) (err error) {
	_, err = d.Exec(`EXAMINE "`+AddSlashes.Replace(folder)+`"`, false, RetryCount, nil)
	if err != nil {
		return err
	}
	d.Folder = folder
	d.ReadOnly = true
	d.setState(StateSelected)
	return nil
}

// SelectFolder selects a folder in read-write mode
func (d *Dialer) SelectFolder(folder string) (err error) {
	_, err = d.Exec(`SELECT "`+AddSlashes.Replace(folder)+`"`, false, RetryCount, nil)
	if err != nil {
		return err
	}
	d.Folder = folder
	d.ReadOnly = false
	d.setState(StateSelected)
	return nil
}

// selectExistsCount issues SELECT on folder and returns the EXISTS count
// reported in the untagged response stream.
func (d *Dialer) selectExistsCount(folder string) (count int, err error) {
	_, err = d.Exec(`SELECT "`+AddSlashes.Replace(folder)+`"`, false, RetryCount, func(resp UntaggedResponse) error {
		if resp.Type == TokenEXISTS {
			count = int(resp.Data.(uint64))
		}
		return nil
	})
	return count, err
}

// maxUID issues "UID SEARCH ALL" and returns the highest UID in the
// mailbox, or 0 if it's empty. SEARCH results are returned in ascending
// order, so the highest is the last element.
func (d *Dialer) maxUID() (max int, err error) {
	var uids []uint64
	_, err = d.Exec("UID SEARCH ALL", false, RetryCount, func(resp UntaggedResponse) error {
		if resp.Type == TokenSEARCH {
			uids = resp.Data.([]uint64)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if len(uids) == 0 {
		return 0, nil
	}
	return int(uids[len(uids)-1]), nil
}

// GetTotalEmailCount returns the total email count across all folders
func (d *Dialer) GetTotalEmailCount() (count int, err error) {
	return d.GetTotalEmailCountStartingFromExcluding("", nil)
}

// GetTotalEmailCountExcluding returns total email count excluding specified folders
func (d *Dialer) GetTotalEmailCountExcluding(excludedFolders []string) (count int, err error) {
	return d.GetTotalEmailCountStartingFromExcluding("", excludedFolders)
}

// GetTotalEmailCountStartingFrom returns total email count starting from a specific folder
func (d *Dialer) GetTotalEmailCountStartingFrom(startFolder string) (count int, err error) {
	return d.GetTotalEmailCountStartingFromExcluding(startFolder, nil)
}

// GetTotalEmailCountSafe returns total email count with error handling per folder
func (d *Dialer) GetTotalEmailCountSafe() (count int, folderErrors []error, err error) {
	return d.GetTotalEmailCountSafeStartingFromExcluding("", nil)
}

// GetTotalEmailCountSafeExcluding returns total email count excluding folders with error handling
func (d *Dialer) GetTotalEmailCountSafeExcluding(excludedFolders []string) (count int, folderErrors []error, err error) {
	return d.GetTotalEmailCountSafeStartingFromExcluding("", excludedFolders)
}

// GetTotalEmailCountSafeStartingFrom returns total email count starting from folder with error handling
func (d *Dialer) GetTotalEmailCountSafeStartingFrom(startFolder string) (count int, folderErrors []error, err error) {
	return d.GetTotalEmailCountSafeStartingFromExcluding(startFolder, nil)
}

// GetFolderStats returns statistics for all folders
func (d *Dialer) GetFolderStats() ([]FolderStats, error) {
	return d.GetFolderStatsStartingFromExcluding("", nil)
}

// GetFolderStatsExcluding returns statistics for folders excluding specified ones
func (d *Dialer) GetFolderStatsExcluding(excludedFolders []string) ([]FolderStats, error) {
	return d.GetFolderStatsStartingFromExcluding("", excludedFolders)
}

// GetFolderStatsStartingFrom returns statistics for folders starting from a specific one
func (d *Dialer) GetFolderStatsStartingFrom(startFolder string) ([]FolderStats, error) {
	return d.GetFolderStatsStartingFromExcluding(startFolder, nil)
}

// GetTotalEmailCountStartingFromExcluding returns total email count with options for starting folder and exclusions
func (d *Dialer) GetTotalEmailCountStartingFromExcluding(startFolder string, excludedFolders []string) (count int, err error) {
	folders, err := d.GetFolders()
	if err != nil {
		return 0, err
	}

	startFound := startFolder == ""
	excludeMap := make(map[string]bool)
	for _, folder := range excludedFolders {
		excludeMap[folder] = true
	}

	currentFolder := d.Folder
	currentReadOnly := d.ReadOnly

	for _, folder := range folders {
		if !startFound {
			if folder == startFolder {
				startFound = true
			} else {
				continue
			}
		}

		if excludeMap[folder] {
			continue
		}

		if err = d.ExamineFolder(folder); err != nil {
			continue
		}

		if folderCount, err := d.selectExistsCount(folder); err == nil {
			count += folderCount
		}
	}

	// Restore original folder state
	if currentFolder != "" {
		if currentReadOnly {
			_ = d.ExamineFolder(currentFolder)
		} else {
			_ = d.SelectFolder(currentFolder)
		}
	}

	return count, nil
}

// GetTotalEmailCountSafeStartingFromExcluding returns total email count with per-folder error handling
func (d *Dialer) GetTotalEmailCountSafeStartingFromExcluding(startFolder string, excludedFolders []string) (count int, folderErrors []error, err error) {
	folders, err := d.GetFolders()
	if err != nil {
		return 0, nil, err
	}

	startFound := startFolder == ""
	excludeMap := make(map[string]bool)
	for _, folder := range excludedFolders {
		excludeMap[folder] = true
	}

	currentFolder := d.Folder
	currentReadOnly := d.ReadOnly

	for _, folder := range folders {
		if !startFound {
			if folder == startFolder {
				startFound = true
			} else {
				continue
			}
		}

		if excludeMap[folder] {
			continue
		}

		if err := d.ExamineFolder(folder); err != nil {
			folderErrors = append(folderErrors, fmt.Errorf("folder %s: %w", folder, err))
			continue
		}

		folderCount, folderErr := d.selectExistsCount(folder)
		if folderErr != nil {
			folderErrors = append(folderErrors, fmt.Errorf("folder %s: %w", folder, folderErr))
			continue
		}
		count += folderCount
	}

	// Restore original folder state
	if currentFolder != "" {
		if currentReadOnly {
			_ = d.ExamineFolder(currentFolder)
		} else {
			_ = d.SelectFolder(currentFolder)
		}
	}

	return count, folderErrors, nil
}

// GetFolderStatsStartingFromExcluding returns detailed statistics for folders with options
func (d *Dialer) GetFolderStatsStartingFromExcluding(startFolder string, excludedFolders []string) ([]FolderStats, error) {
	folders, err := d.GetFolders()
	if err != nil {
		return nil, err
	}

	startFound := startFolder == ""
	excludeMap := make(map[string]bool)
	for _, folder := range excludedFolders {
		excludeMap[folder] = true
	}

	currentFolder := d.Folder
	currentReadOnly := d.ReadOnly

	var stats []FolderStats

	for _, folder := range folders {
		if !startFound {
			if folder == startFolder {
				startFound = true
			} else {
				continue
			}
		}

		if excludeMap[folder] {
			continue
		}

		stat := FolderStats{Name: folder}

		if err := d.ExamineFolder(folder); err != nil {
			stat.Error = err
			stats = append(stats, stat)
			continue
		}

		count, err := d.selectExistsCount(folder)
		if err != nil {
			stat.Error = err
			stats = append(stats, stat)
			continue
		}
		stat.Count = count

		if stat.Count > 0 {
			if max, err := d.maxUID(); err == nil {
				stat.MaxUID = max
			}
		}

		stats = append(stats, stat)
	}

	// Restore original folder state
	if currentFolder != "" {
		if currentReadOnly {
			_ = d.ExamineFolder(currentFolder)
		} else {
			_ = d.SelectFolder(currentFolder)
		}
	}

	return stats, nil
}
