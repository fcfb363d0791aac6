// Package blockdupes finds duplicate files by comparing them block by block.
//
// Candidates are grouped by exact size first. Each size class is then split in
// rounds: every surviving file has one block hashed per round, files whose block
// digest is unique are dropped, and the rest are carried into the next round.
// A file that diverges early is never read past the block where it diverged.
//
// # Basic Usage
//
//	finder, err := blockdupes.NewFinder(blockdupes.Options{
//		BlockSize: 4096,
//		Hash:      "crc32",
//	})
//	if err != nil {
//		return err
//	}
//	refs, warnings := blockdupes.CollectFileRefs(paths, blockdupes.DefaultCollectOptions())
//	result, err := finder.FindDuplicates(shutdownChan, refs)
//	for _, group := range result.Groups {
//		fmt.Println(group.Size, group.Files)
//	}
//
// FindDuplicatesInPaths does both steps and merges the warnings.
//
// # Hash Algorithms
//
// crc32 (the default), md5 and blake3 are supported. Digests only decide which
// files stay together; a digest collision can group files that differ.
//
// # Configuration
//
// Enable debug output:
//
//	blockdupes.SetDebugFlags("round,reader")
//	blockdupes.SetVerboseLevel(2)
package blockdupes
